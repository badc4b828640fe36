package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vnlaw/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vnlaw/internal/core/domain"
	"github.com/custodia-labs/vnlaw/internal/core/ports/driven"
)

const marriageLaw = `CỘNG HÒA XÃ HỘI CHỦ NGHĨA VIỆT NAM
Độc lập - Tự do - Hạnh phúc
LUẬT HÔN NHÂN VÀ GIA ĐÌNH
Điều 1. Phạm vi điều chỉnh
1. Luật này quy định chế độ hôn nhân.
Chương I
NHỮNG QUY ĐỊNH CHUNG
Điều 2. Giải thích từ ngữ
1. Kết hôn là việc nam và nữ xác lập quan hệ vợ chồng.
2. Các hành vi bị cấm:
a) Kết hôn giả tạo;
b) Tảo hôn;
Chương II
KẾT HÔN
Điều 8. Điều kiện kết hôn
1. Nam từ đủ 20 tuổi trở lên.`

var errInjected = errors.New("injected failure")

// stubExtractor returns fixed text or an error.
type stubExtractor struct {
	text         string
	err          error
	calls        int
	preferNative bool
}

func (s *stubExtractor) Extract(ctx context.Context, _ string) (string, error) {
	s.calls++
	s.preferNative = driven.PreferNative(ctx)
	return s.text, s.err
}

// failingTx fails InsertNode after a number of successful inserts.
type failingTx struct {
	driven.IngestTx
	remaining int
}

func (f *failingTx) InsertNode(ctx context.Context, n *domain.Node) (int64, error) {
	if f.remaining == 0 {
		return 0, errInjected
	}
	f.remaining--
	return f.IngestTx.InsertNode(ctx, n)
}

type failingTransactor struct {
	*memory.Store
	failAfter int
}

func (f failingTransactor) WithinTx(ctx context.Context, fn func(context.Context, driven.IngestTx) error) error {
	return f.Store.WithinTx(ctx, func(ctx context.Context, tx driven.IngestTx) error {
		return fn(ctx, &failingTx{IngestTx: tx, remaining: f.failAfter})
	})
}

func newTestIngest(store driven.Transactor, extractor driven.TextExtractor) *IngestService {
	svc := NewIngestService(extractor, store, NewSettingsService(memory.NewConfigStore()))
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func importLaw(t *testing.T, svc *IngestService, replace bool) *domain.ImportResult {
	t.Helper()
	res, err := svc.Import(context.Background(), domain.ImportRequest{
		Path:    "luat-hon-nhan.txt",
		Text:    marriageLaw,
		Code:    "52/2014/QH13",
		Replace: replace,
	})
	require.NoError(t, err)
	return res
}

func TestIngestService_ImportCreatesTree(t *testing.T) {
	store := memory.NewStore()
	svc := newTestIngest(store, nil)
	ctx := context.Background()

	res := importLaw(t, svc, false)

	assert.Equal(t, domain.ImportCreated, res.Mode)
	assert.Equal(t, "52/2014/QH13", res.Code)
	assert.Equal(t, "LUẬT HÔN NHÂN VÀ GIA ĐÌNH", res.Title)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 3, res.Stats.Articles)
	assert.Equal(t, 4, res.Stats.Clauses)
	assert.Equal(t, 2, res.Stats.Items)

	law, err := store.GetLawByCode(ctx, "52/2014/QH13")
	require.NoError(t, err)
	assert.Equal(t, res.LawID, law.ID)
	assert.Equal(t, domain.DocTypeLaw, law.DocType)
	assert.Nil(t, law.RelatedLawID)

	nodes, err := store.ListNodesByLaw(ctx, law.ID)
	require.NoError(t, err)

	type row struct{ sortKey, path string }
	want := []row{
		{"000.001", "/52/2014/QH13/Dieu-1"},
		{"000.001.001", "/52/2014/QH13/Dieu-1/Khoan-1"},
		{"001", "/52/2014/QH13/Chuong-I"},
		{"001.002", "/52/2014/QH13/Chuong-I/Dieu-2"},
		{"001.002.001", "/52/2014/QH13/Chuong-I/Dieu-2/Khoan-1"},
		{"001.002.002", "/52/2014/QH13/Chuong-I/Dieu-2/Khoan-2"},
		{"001.002.002.001", "/52/2014/QH13/Chuong-I/Dieu-2/Khoan-2/Diem-a"},
		{"001.002.002.002", "/52/2014/QH13/Chuong-I/Dieu-2/Khoan-2/Diem-b"},
		{"002", "/52/2014/QH13/Chuong-II"},
		{"002.008", "/52/2014/QH13/Chuong-II/Dieu-8"},
		{"002.008.001", "/52/2014/QH13/Chuong-II/Dieu-8/Khoan-1"},
	}
	require.Len(t, nodes, len(want))
	for i, w := range want {
		assert.Equal(t, w.sortKey, nodes[i].SortKey, "node %d", i)
		assert.Equal(t, w.path, nodes[i].Path, "node %d", i)
		assert.Equal(t, domain.DefaultEffectiveStart, nodes[i].EffectiveStart)
		assert.Equal(t, domain.DefaultEffectiveEnd, nodes[i].EffectiveEnd)
	}

	byPath := make(map[string]domain.Node, len(nodes))
	for _, n := range nodes {
		byPath[n.Path] = n
	}

	chapter := byPath["/52/2014/QH13/Chuong-I"]
	assert.Nil(t, chapter.ParentID)
	assert.Equal(t, domain.LevelChapter, chapter.Level)
	assert.Equal(t, "Chương I", chapter.OrdinalLabel)
	assert.Equal(t, "NHỮNG QUY ĐỊNH CHUNG", chapter.Title)
	assert.Empty(t, chapter.ContentText)

	orphan := byPath["/52/2014/QH13/Dieu-1"]
	assert.Nil(t, orphan.ParentID)

	article := byPath["/52/2014/QH13/Chuong-I/Dieu-2"]
	require.NotNil(t, article.ParentID)
	assert.Equal(t, chapter.ID, *article.ParentID)
	assert.Equal(t, "Điều 2", article.OrdinalLabel)
	assert.Equal(t, "Giải thích từ ngữ", article.Heading)
	assert.Empty(t, article.ContentText)

	clause := byPath["/52/2014/QH13/Chuong-I/Dieu-2/Khoan-2"]
	require.NotNil(t, clause.ParentID)
	assert.Equal(t, article.ID, *clause.ParentID)
	assert.Equal(t, "Các hành vi bị cấm:", clause.ContentText)
	assert.Equal(t, "Khoản 2", clause.Title)

	item := byPath["/52/2014/QH13/Chuong-I/Dieu-2/Khoan-2/Diem-b"]
	require.NotNil(t, item.ParentID)
	assert.Equal(t, clause.ID, *item.ParentID)
	assert.Equal(t, domain.LevelItem, item.Level)
	assert.Equal(t, "Tảo hôn;", item.ContentText)
	assert.Equal(t, "Điểm b", item.OrdinalLabel)

	runs, err := store.ListImportRuns(ctx, law.ID)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, res.RunID, runs[0].ID)
	assert.Equal(t, domain.ImportCreated, runs[0].Mode)
	assert.Equal(t, 3, runs[0].Articles)
}

func TestIngestService_ExistingCodeWithoutReplace(t *testing.T) {
	store := memory.NewStore()
	svc := newTestIngest(store, nil)
	ctx := context.Background()
	first := importLaw(t, svc, false)

	_, err := svc.Import(ctx, domain.ImportRequest{
		Path: "luat.txt",
		Text: "Điều 1. Khác\n1. Nội dung khác",
		Code: "52/2014/QH13",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	var exists *domain.LawExistsError
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, first.LawID, exists.LawID)
	assert.Equal(t, 11, exists.NodeCount)

	nodes, err := store.ListNodesByLaw(ctx, first.LawID)
	require.NoError(t, err)
	assert.Len(t, nodes, 11)

	runs, err := store.ListImportRuns(ctx, first.LawID)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestIngestService_ReplaceIsIdempotent(t *testing.T) {
	store := memory.NewStore()
	svc := newTestIngest(store, nil)
	ctx := context.Background()

	first := importLaw(t, svc, false)
	before, err := store.ListNodesByLaw(ctx, first.LawID)
	require.NoError(t, err)

	second := importLaw(t, svc, true)
	assert.Equal(t, domain.ImportReplaced, second.Mode)
	assert.Equal(t, first.LawID, second.LawID)
	assert.Equal(t, int64(11), second.Deleted)
	assert.NotEqual(t, first.RunID, second.RunID)

	after, err := store.ListNodesByLaw(ctx, first.LawID)
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].SortKey, after[i].SortKey)
		assert.Equal(t, before[i].Path, after[i].Path)
		assert.Equal(t, before[i].ContentText, after[i].ContentText)
	}

	laws, err := store.ListLaws(ctx)
	require.NoError(t, err)
	assert.Len(t, laws, 1)

	runs, err := store.ListImportRuns(ctx, first.LawID)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, domain.ImportReplaced, runs[0].Mode)
	assert.Equal(t, int64(11), runs[0].Deleted)
}

func TestIngestService_ReplaceUpdatesLawInPlace(t *testing.T) {
	store := memory.NewStore()
	svc := newTestIngest(store, nil)
	ctx := context.Background()
	first := importLaw(t, svc, false)

	_, err := svc.Import(ctx, domain.ImportRequest{
		Path:        "x.txt",
		Text:        marriageLaw,
		Code:        "52/2014/QH13",
		DocType:     domain.DocTypeDecree,
		IssuingBody: "Quốc hội",
		Replace:     true,
	})
	require.NoError(t, err)

	law, err := store.GetLaw(ctx, first.LawID)
	require.NoError(t, err)
	assert.Equal(t, domain.DocTypeDecree, law.DocType)
	assert.Equal(t, "Quốc hội", law.IssuingBody)
	assert.Equal(t, "LUẬT HÔN NHÂN VÀ GIA ĐÌNH", law.Title)
}

func TestIngestService_RollbackOnNewLaw(t *testing.T) {
	store := memory.NewStore()
	svc := newTestIngest(failingTransactor{Store: store, failAfter: 4}, nil)
	ctx := context.Background()

	_, err := svc.Import(ctx, domain.ImportRequest{Path: "a.txt", Text: marriageLaw, Code: "A"})
	assert.ErrorIs(t, err, errInjected)

	_, err = store.GetLawByCode(ctx, "A")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngestService_RollbackOnReplaceKeepsOldTree(t *testing.T) {
	store := memory.NewStore()
	first := importLaw(t, newTestIngest(store, nil), false)
	ctx := context.Background()

	svc := newTestIngest(failingTransactor{Store: store, failAfter: 1}, nil)
	_, err := svc.Import(ctx, domain.ImportRequest{
		Path:    "a.txt",
		Text:    "Điều 1. Mới\n1. Khác hẳn",
		Code:    "52/2014/QH13",
		DocType: domain.DocTypeDecree,
		Replace: true,
	})
	assert.ErrorIs(t, err, errInjected)

	nodes, err := store.ListNodesByLaw(ctx, first.LawID)
	require.NoError(t, err)
	assert.Len(t, nodes, 11)

	law, err := store.GetLaw(ctx, first.LawID)
	require.NoError(t, err)
	assert.Equal(t, domain.DocTypeLaw, law.DocType)

	runs, err := store.ListImportRuns(ctx, first.LawID)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestIngestService_ReplaceSweepsContainerLevels(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	var lawID int64
	err := store.WithinTx(ctx, func(ctx context.Context, tx driven.IngestTx) error {
		var err error
		if lawID, err = tx.CreateLaw(ctx, &domain.Law{Code: "X", DocType: domain.DocTypeLaw}); err != nil {
			return err
		}
		insert := func(level domain.Level, parent *int64, key string) *int64 {
			id, ierr := tx.InsertNode(ctx, &domain.Node{LawID: lawID, ParentID: parent, Level: level, SortKey: key})
			require.NoError(t, ierr)
			return &id
		}
		part := insert(domain.LevelPart, nil, "001")
		chapter := insert(domain.LevelChapter, part, "001.001")
		section := insert(domain.LevelSection, chapter, "001.001.001")
		article := insert(domain.LevelArticle, section, "001.001.001.001")
		insert(domain.LevelClause, article, "001.001.001.001.001")
		appendix := insert(domain.Level("PHU_LUC"), nil, "900")
		insert(domain.Level("PHU_LUC_MUC"), appendix, "900.001")
		return nil
	})
	require.NoError(t, err)

	svc := newTestIngest(store, nil)
	res, err := svc.Import(ctx, domain.ImportRequest{
		Path:    "x.txt",
		Text:    "Điều 1. Một\n1. Khoản",
		Code:    "X",
		Replace: true,
	})
	require.NoError(t, err)
	assert.Equal(t, lawID, res.LawID)
	assert.Equal(t, int64(7), res.Deleted)

	nodes, err := store.ListNodesByLaw(ctx, lawID)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "/X/Dieu-1", nodes[0].Path)
}

func TestIngestService_DecreeDefaults(t *testing.T) {
	store := memory.NewStore()
	svc := newTestIngest(store, nil)
	ctx := context.Background()
	parent := importLaw(t, svc, false)

	res, err := svc.Import(ctx, domain.ImportRequest{
		Path: "/inbox/nghi-dinh-126.txt",
		Text: "NGHỊ ĐỊNH\nĐiều 1. Phạm vi\n1. Nghị định này quy định chi tiết.",
	})
	require.NoError(t, err)
	assert.Equal(t, "NGHI/DINH/126", res.Code)

	decree, err := store.GetLaw(ctx, res.LawID)
	require.NoError(t, err)
	assert.Equal(t, domain.DocTypeDecree, decree.DocType)
	require.NotNil(t, decree.RelatedLawID)
	assert.Equal(t, parent.LawID, *decree.RelatedLawID)

	wantStart := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, wantStart, decree.EffectiveStart)

	nodes, err := store.ListNodesByLaw(ctx, res.LawID)
	require.NoError(t, err)
	require.NotEmpty(t, nodes)
	assert.Equal(t, wantStart, nodes[0].EffectiveStart)
	assert.Equal(t, domain.DefaultEffectiveEnd, nodes[0].EffectiveEnd)
}

func TestIngestService_UnknownRelatedLawIsNull(t *testing.T) {
	store := memory.NewStore()
	svc := newTestIngest(store, nil)

	res, err := svc.Import(context.Background(), domain.ImportRequest{
		Path:           "d.txt",
		Text:           "Điều 1. A\n1. B",
		Code:           "D",
		DocType:        domain.DocTypeDecree,
		RelatedLawCode: "NOPE",
	})
	require.NoError(t, err)

	law, err := store.GetLaw(context.Background(), res.LawID)
	require.NoError(t, err)
	assert.Nil(t, law.RelatedLawID)
}

func TestIngestService_UsesExtractor(t *testing.T) {
	store := memory.NewStore()
	extractor := &stubExtractor{text: "Điều 3. Ba\n1. Một"}
	svc := newTestIngest(store, extractor)

	res, err := svc.Import(context.Background(), domain.ImportRequest{Path: "/tmp/121-vbhn-vpqh.pdf"})
	require.NoError(t, err)
	assert.Equal(t, 1, extractor.calls)
	assert.False(t, extractor.preferNative)
	assert.Equal(t, "121/VBHN/VPQH", res.Code)
	assert.Equal(t, "Điều 3. Ba", res.Title)

	_, err = svc.Preview(context.Background(), domain.ImportRequest{Path: "/tmp/x.pdf", PreferNative: true})
	require.NoError(t, err)
	assert.True(t, extractor.preferNative)
}

func TestIngestService_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("no document", func(t *testing.T) {
		svc := newTestIngest(memory.NewStore(), nil)
		_, err := svc.Import(ctx, domain.ImportRequest{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("missing file", func(t *testing.T) {
		svc := newTestIngest(memory.NewStore(), &stubExtractor{err: domain.ErrFileNotFound})
		_, err := svc.Import(ctx, domain.ImportRequest{Path: "missing.pdf"})
		assert.ErrorIs(t, err, domain.ErrFileNotFound)
	})

	t.Run("empty text", func(t *testing.T) {
		svc := newTestIngest(memory.NewStore(), &stubExtractor{text: "  \n\t "})
		_, err := svc.Import(ctx, domain.ImportRequest{Path: "blank.pdf"})
		assert.ErrorIs(t, err, domain.ErrEmptyText)
	})

	t.Run("end before start", func(t *testing.T) {
		svc := newTestIngest(memory.NewStore(), nil)
		_, err := svc.Import(ctx, domain.ImportRequest{
			Path:           "a.txt",
			Text:           "Điều 1. A",
			EffectiveStart: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			EffectiveEnd:   time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("no store", func(t *testing.T) {
		svc := NewIngestService(nil, nil, nil)
		_, err := svc.Import(ctx, domain.ImportRequest{Text: "Điều 1. A"})
		assert.ErrorIs(t, err, domain.ErrNotImplemented)
	})
}

func TestIngestService_PreviewDoesNotWrite(t *testing.T) {
	svc := NewIngestService(nil, nil, nil)

	preview, err := svc.Preview(context.Background(), domain.ImportRequest{
		Path: "luat-hon-nhan.txt",
		Text: marriageLaw,
	})
	require.NoError(t, err)
	assert.Equal(t, "LUAT/HON/NHAN", preview.Code)
	assert.Equal(t, "LUẬT HÔN NHÂN VÀ GIA ĐÌNH", preview.Title)
	assert.Equal(t, domain.DocTypeLaw, preview.DocType)
	assert.Equal(t, 2, preview.Stats.Chapters)
	assert.Equal(t, 1, preview.Stats.OrphanArticles)
	require.NotNil(t, preview.Document)
	assert.Len(t, preview.Document.Chapters, 2)
}
