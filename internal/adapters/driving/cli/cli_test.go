package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vnlaw/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vnlaw/internal/core/domain"
	"github.com/custodia-labs/vnlaw/internal/core/services"
	"github.com/custodia-labs/vnlaw/internal/extractors"
	"github.com/custodia-labs/vnlaw/internal/extractors/pdf"
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

// setupTestServices wires real services over in-memory stores.
func setupTestServices(t *testing.T) *memory.Store {
	t.Helper()

	store := memory.NewStore()
	settings := services.NewSettingsService(memory.NewConfigStore())
	registry := extractors.NewDefaultRegistry(domain.ExtractSettings{})

	SetServices(Services{
		Ingest:          services.NewIngestService(registry, store, settings),
		Laws:            services.NewLawService(store),
		Nodes:           services.NewNodeService(store),
		Settings:        settings,
		WatchExtensions: registry.Extensions(),
	})
	t.Cleanup(func() { SetServices(Services{}) })
	return store
}

// writeLaw writes the sample law to a file named name in a temp dir.
func writeLaw(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(marriageLaw), 0600))
	return path
}

// resetFlags restores every flag to its default so commands do not leak
// state between tests.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	resetFlags(rootCmd)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestImportCmd_DryRunWritesNothing(t *testing.T) {
	store := setupTestServices(t)
	path := writeLaw(t, "52-2014-qh13.txt")

	out, err := executeCommand(t, "import", path, "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, out, "Law code : 52/2014/QH13")
	assert.Contains(t, out, "Title    : LUẬT HÔN NHÂN VÀ GIA ĐÌNH")
	assert.Contains(t, out, "Doc type : LAW")
	assert.Contains(t, out, "Parsed   : 3 articles (in 2 chapters + 1 orphan articles)")
	assert.Contains(t, out, "- Điều 1: Phạm vi điều chỉnh (clauses: 1)")
	assert.Contains(t, out, "* Điểm a: Kết hôn giả tạo;")

	laws, err := store.ListLaws(context.Background())
	require.NoError(t, err)
	assert.Empty(t, laws)
}

func TestImportCmd_CreatesAndReplaces(t *testing.T) {
	setupTestServices(t)
	path := writeLaw(t, "52-2014-qh13.txt")

	out, err := executeCommand(t, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported law '52/2014/QH13'")
	assert.Contains(t, out, "with 3 articles and 4 clauses.")

	_, err = executeCommand(t, "import", path)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	out, err = executeCommand(t, "import", path, "--replace")
	require.NoError(t, err)
	assert.Contains(t, out, "Re-imported law '52/2014/QH13'")
	assert.Contains(t, out, "replaced nodes: 11")
}

func TestImportCmd_FlagOverrides(t *testing.T) {
	store := setupTestServices(t)
	path := writeLaw(t, "ban-thao.txt")

	_, err := executeCommand(t, "import", path,
		"--code", "52/2014/QH13",
		"--title", "Luật Hôn nhân và gia đình",
		"--issuing-body", "Quốc hội",
		"--promulgation-date", "2014-06-19",
		"--effective-start", "2015-01-01",
	)
	require.NoError(t, err)

	law, err := store.GetLawByCode(context.Background(), "52/2014/QH13")
	require.NoError(t, err)
	assert.Equal(t, "Luật Hôn nhân và gia đình", law.Title)
	assert.Equal(t, "Quốc hội", law.IssuingBody)
	require.NotNil(t, law.PromulgationDate)
	assert.Equal(t, "2014-06-19", law.PromulgationDate.Format(domain.DateLayout))
	assert.Equal(t, "2015-01-01", law.EffectiveStart.Format(domain.DateLayout))
}

func TestImportCmd_InvalidFlags(t *testing.T) {
	setupTestServices(t)
	path := writeLaw(t, "52-2014-qh13.txt")

	tests := []struct {
		name string
		args []string
	}{
		{"doc type", []string{"--doc-type", "CIRCULAR"}},
		{"effective start", []string{"--effective-start", "01/01/2015"}},
		{"promulgation date", []string{"--promulgation-date", "2014-13-40"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, append([]string{"import", path}, tt.args...)...)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestImportCmd_UnsupportedExtension(t *testing.T) {
	setupTestServices(t)
	path := writeLaw(t, "luat.docx")

	_, err := executeCommand(t, "import", path)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestImportCmd_NotConfigured(t *testing.T) {
	SetServices(Services{})

	_, err := executeCommand(t, "import", "luat.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingest service not configured")
}

func TestImportCmd_DryRunWithoutStore(t *testing.T) {
	settings := services.NewSettingsService(memory.NewConfigStore())
	registry := extractors.NewDefaultRegistry(domain.ExtractSettings{})
	SetServices(Services{
		Ingest:   services.NewIngestService(registry, nil, settings),
		Settings: settings,
		StoreErr: errors.New("postgres: dsn is required"),
	})
	t.Cleanup(func() { SetServices(Services{}) })
	path := writeLaw(t, "52-2014-qh13.txt")

	out, err := executeCommand(t, "import", path, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Law code : 52/2014/QH13")
	assert.Contains(t, out, "Parsed   : 3 articles")

	_, err = executeCommand(t, "import", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingest service not configured: postgres: dsn is required")
}

func TestImportCmd_MissingPdftotextPrintsInstallHint(t *testing.T) {
	settings := services.NewSettingsService(memory.NewConfigStore())
	registry := extractors.NewDefaultRegistry(domain.ExtractSettings{
		PdftotextPath: filepath.Join(t.TempDir(), "no-pdftotext"),
	})
	SetServices(Services{
		Ingest:   services.NewIngestService(registry, nil, settings),
		Settings: settings,
	})
	t.Cleanup(func() { SetServices(Services{}) })

	path := filepath.Join(t.TempDir(), "luat.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0600))

	out, err := executeCommand(t, "import", path, "--dry-run")
	assert.ErrorIs(t, err, pdf.ErrPDFToolNotFound)
	assert.Contains(t, out, "brew install poppler")
}

func TestLawCmds(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand(t, "law", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No laws imported yet.")

	_, err = executeCommand(t, "import", writeLaw(t, "52-2014-qh13.txt"))
	require.NoError(t, err)

	out, err = executeCommand(t, "law", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "52/2014/QH13")
	assert.Contains(t, out, "LUẬT HÔN NHÂN VÀ GIA ĐÌNH")

	out, err = executeCommand(t, "law", "show", "52/2014/QH13")
	require.NoError(t, err)
	assert.Contains(t, out, "Code:       52/2014/QH13")
	assert.Contains(t, out, "Nodes:      11")
	assert.Contains(t, out, "Import runs:")

	out, err = executeCommand(t, "law", "toc", "52/2014/QH13", "--depth", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Chương I. NHỮNG QUY ĐỊNH CHUNG")
	assert.Contains(t, out, "Chương II. KẾT HÔN")
	assert.NotContains(t, out, "Điều 8")

	out, err = executeCommand(t, "law", "toc", "52/2014/QH13")
	require.NoError(t, err)
	assert.Contains(t, out, "Điều 8. Điều kiện kết hôn")
	assert.Contains(t, out, "Điểm b: Tảo hôn;")

	_, err = executeCommand(t, "law", "show", "1/2000/QH10")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNodeCmds(t *testing.T) {
	setupTestServices(t)
	_, err := executeCommand(t, "import", writeLaw(t, "52-2014-qh13.txt"))
	require.NoError(t, err)

	out, err := executeCommand(t, "node", "search", "TẢO HÔN")
	require.NoError(t, err)
	assert.Contains(t, out, "/52/2014/QH13/Chuong-I/Dieu-2/Khoan-2/Diem-b")
	assert.Contains(t, out, "Tảo hôn;")

	nodes, err := nodeService.Search(context.Background(), "tảo hôn", 1)
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	out, err = executeCommand(t, "node", "get", strconv.FormatInt(nodes[0].ID, 10))
	require.NoError(t, err)
	assert.Contains(t, out, "Level:    DIEM")
	assert.Contains(t, out, "Sort key: 001.002.002.002")

	out, err = executeCommand(t, "node", "search", "không có", "--json")
	require.NoError(t, err)
	assert.Contains(t, []string{"null", "[]"}, strings.TrimSpace(out))

	_, err = executeCommand(t, "node", "get", "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsCmds(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, "settings", "set", "decree.related_law_code", "91/2015/QH13")
	require.NoError(t, err)

	out, err := executeCommand(t, "settings", "get", "decree.related_law_code")
	require.NoError(t, err)
	assert.Contains(t, out, "91/2015/QH13")

	out, err = executeCommand(t, "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "storage.driver")
	assert.Contains(t, out, "sqlite")

	_, err = executeCommand(t, "settings", "set", "no.such_key", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "****", maskSecret("short"))
	assert.Equal(t, "post...5432", maskSecret("postgres://u:p@localhost:5432"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "a b", truncate("a\n  b", 10))
	assert.Equal(t, "Điều...", truncate("Điều kiện", 4))
	assert.Equal(t, "Điều", truncate("Điều", 4))
}

func TestMCPServeCmd_PortFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestMCPServeCmd_NotConfigured(t *testing.T) {
	SetServices(Services{})

	_, err := executeCommand(t, "mcp", "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestWatchCmd_MissingDir(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, "watch", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}

func TestWatchCmd_Flags(t *testing.T) {
	for _, name := range []string{"replace", "prefer-native", "debounce"} {
		assert.NotNil(t, watchCmd.Flags().Lookup(name), name)
	}
}
