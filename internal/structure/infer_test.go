package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/vnlaw/internal/core/domain"
)

func TestInferTitle(t *testing.T) {
	lines := []string{
		"CỘNG HÒA XÃ HỘI CHỦ NGHĨA VIỆT NAM",
		"Độc lập - Tự do - Hạnh phúc",
		"",
		"LUẬT HÔN NHÂN VÀ GIA ĐÌNH",
		"Điều 1. Phạm vi",
	}
	assert.Equal(t, "LUẬT HÔN NHÂN VÀ GIA ĐÌNH", InferTitle(lines, "/tmp/luat.pdf"))
}

func TestInferTitle_FallsBackToFileName(t *testing.T) {
	assert.Equal(t, "luat.pdf", InferTitle(nil, "/tmp/luat.pdf"))
	assert.Equal(t, "luat.pdf", InferTitle([]string{"Cộng hòa", ""}, "/tmp/luat.pdf"))
}

func TestInferTitle_OnlyScansLeadingLines(t *testing.T) {
	lines := make([]string, 0, titleScanLines+1)
	for i := 0; i < titleScanLines; i++ {
		lines = append(lines, "CỘNG HÒA")
	}
	lines = append(lines, "QUÁ XA")
	assert.Equal(t, "x.txt", InferTitle(lines, "x.txt"))
}

func TestInferCode(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"121-vbhn-vpqh.pdf", "121/VBHN/VPQH"},
		{"/data/inbox/52_2014_qh13.PDF", "52/2014/QH13"},
		{"cach thi hanh luat.txt", "CACH/THI/HANH/LUAT"},
		{"nghi--dinh__126.pdf", "NGHI/DINH/126"},
		{"plain", "PLAIN"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, InferCode(tt.path))
		})
	}
}

func TestInferDocType(t *testing.T) {
	assert.Equal(t, domain.DocTypeDecree, InferDocType("nghi-dinh-126.pdf"))
	assert.Equal(t, domain.DocTypeDecree, InferDocType("/x/NghiDinh_126.pdf"))
	assert.Equal(t, domain.DocTypeDecree, InferDocType("nghi_dinh.pdf"))
	assert.Equal(t, domain.DocTypeLaw, InferDocType("121-vbhn-vpqh.pdf"))
}
