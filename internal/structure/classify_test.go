package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		line      string
		wantKind  LineKind
		wantLabel string
		wantText  string
	}{
		{"", KindBlank, "", ""},
		{"   ", KindBlank, "", ""},

		{"Chương I", KindChapter, "I", ""},
		{"CHƯƠNG II. KẾT HÔN", KindChapter, "II", "KẾT HÔN"},
		{"Chuong 3: Ly hon", KindChapter, "3", "Ly hon"},
		{"Chương IV NHỮNG QUY ĐỊNH CHUNG", KindChapter, "IV", "NHỮNG QUY ĐỊNH CHUNG"},

		{"Điều 8. Điều kiện kết hôn", KindArticle, "8", "Điều kiện kết hôn"},
		{"ĐIỀU 12: Hiệu lực", KindArticle, "12", "Hiệu lực"},
		{"Dieu 5", KindArticle, "5", ""},
		{"Điều 100 Quy định chuyển tiếp", KindArticle, "100", "Quy định chuyển tiếp"},

		{"1. Nam từ đủ 20 tuổi trở lên", KindClause, "1", "Nam từ đủ 20 tuổi trở lên"},
		{"2) Việc kết hôn phải được đăng ký", KindClause, "2", "Việc kết hôn phải được đăng ký"},
		{"Khoản 3. Trường hợp khác", KindClause, "3", "Trường hợp khác"},
		{"khoan 4 noi dung", KindClause, "4", "noi dung"},
		{"10.", KindClause, "10", ""},

		{"a) Việc kết hôn do nam và nữ tự nguyện", KindItem, "a", "Việc kết hôn do nam và nữ tự nguyện"},
		{"đ) Cấm kết hôn", KindItem, "đ", "Cấm kết hôn"},
		{"- b) có gạch đầu dòng", KindItem, "b", "có gạch đầu dòng"},
		{"• c) có dấu chấm", KindItem, "c", "có dấu chấm"},
		{"Điểm d) nội dung", KindItem, "d", "nội dung"},
		{"Diem E: noi dung", KindItem, "e", "noi dung"},
		{"Điểm b. nội dung", KindItem, "b", "nội dung"},
		{"Điểm a khoản 1 Điều 5 được sửa đổi như sau:", KindContinuation, "", "Điểm a khoản 1 Điều 5 được sửa đổi như sau:"},
		{"Điểm a", KindContinuation, "", "Điểm a"},

		{"Luật này quy định chế độ hôn nhân", KindContinuation, "", "Luật này quy định chế độ hôn nhân"},
		{"Điều chỉnh các quan hệ", KindContinuation, "", "Điều chỉnh các quan hệ"},
		{"Chương trình đào tạo", KindContinuation, "", "Chương trình đào tạo"},
		{"1.5 triệu đồng", KindContinuation, "", "1.5 triệu đồng"},
		{"123. không phải khoản", KindContinuation, "", "123. không phải khoản"},
		{"abc) không phải điểm", KindContinuation, "", "abc) không phải điểm"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := Classify(tt.line)
			assert.Equal(t, tt.wantKind, got.Kind, "kind")
			assert.Equal(t, tt.wantLabel, got.Label, "label")
			assert.Equal(t, tt.wantText, got.Text, "text")
		})
	}
}

func TestClassify_Precedence(t *testing.T) {
	// An article header whose heading looks like a clause stays an article.
	got := Classify("Điều 1. 2) nội dung")
	assert.Equal(t, KindArticle, got.Kind)
	assert.Equal(t, "1", got.Label)
}

func TestLineKind_String(t *testing.T) {
	assert.Equal(t, "blank", KindBlank.String())
	assert.Equal(t, "chapter", KindChapter.String())
	assert.Equal(t, "article", KindArticle.String())
	assert.Equal(t, "clause", KindClause.String())
	assert.Equal(t, "item", KindItem.String())
	assert.Equal(t, "continuation", KindContinuation.String())
}
