package document

import "testing"

func TestDetectKind(t *testing.T) {
	cases := []struct {
		path string
		want Kind
	}{
		{"report.pdf", KindPDF},
		{"dir/REPORT.PDF", KindPDF},
		{"screenshot.png", KindImage},
		{"photo.jpg", KindImage},
		{"photo.jpeg", KindImage},
		{"anim.gif", KindImage},
		{"modern.webp", KindImage},
		{"metrics.xlsx", KindSpreadsheet},
		{"legacy.xls", KindSpreadsheet},
		{"export.csv", KindSpreadsheet},
		{"notes.docx", KindWord},
		{"old.doc", KindWord},
		{"readme.txt", KindText},
		{"notes.md", KindText},
		{"archive.zip", KindUnknown},
		{"binary", KindUnknown},
		{"noext.", KindUnknown},
	}

	for _, c := range cases {
		if got := DetectKind(c.path); got != c.want {
			t.Errorf("DetectKind(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}
