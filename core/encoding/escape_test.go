package encoding

import "testing"

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain text", "James, a servant of God", "James, a servant of God"},
		{"ampersand", "faith & works", "faith &amp; works"},
		{"tags", "<i>Selah</i>", "&lt;i&gt;Selah&lt;/i&gt;"},
		{"quotes", `He said "peace"`, "He said &quot;peace&quot;"},
		{"already escaped", "&amp;", "&amp;amp;"},
		{"thai", "ยากอบ & เปโตร", "ยากอบ &amp; เปโตร"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeHTML(tt.input); got != tt.want {
				t.Errorf("EscapeHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEscapeText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"a < b & c > d", "a &lt; b &amp; c &gt; d"},
		{`"quoted"`, `"quoted"`},
	}

	for _, tt := range tests {
		if got := EscapeText(tt.input); got != tt.want {
			t.Errorf("EscapeText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeSpace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"only whitespace", " \n\t ", ""},
		{"poetry lines", "The LORD is my shepherd;\n    I shall not want.", "The LORD is my shepherd; I shall not want."},
		{"surrounding space", "  Jesus wept.  ", "Jesus wept."},
		{"non-breaking space", "ยากอบ ผู้รับใช้", "ยากอบ ผู้รับใช้"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeSpace(tt.input); got != tt.want {
				t.Errorf("NormalizeSpace(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
