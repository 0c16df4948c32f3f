package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/adminpanel/internal/app/system/htmlsanitize"
)

func TestSanitize_Preserves(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"plain text", "Hello, World!"},
		{"inline formatting", "<p><strong>Bold</strong> and <em>italic</em></p>"},
		{"text formatting", "<u>underline</u> <s>strikethrough</s> <sub>sub</sub> <sup>sup</sup> <mark>mark</mark>"},
		{"lists", "<ul><li>Item 1</li><li>Item 2</li></ul>"},
		{"blockquote", "<blockquote>A quote</blockquote>"},
		{"headings", "<h1>Heading 1</h1><h2>Heading 2</h2>"},
		{"code", "<pre><code>function test() {}</code></pre>"},
		{"table", "<table><thead><tr><th>Header</th></tr></thead><tbody><tr><td>Cell</td></tr></tbody></table>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := htmlsanitize.Sanitize(tt.input); got != tt.input {
				t.Errorf("Sanitize(%q) = %q", tt.input, got)
			}
		})
	}
}

func TestSanitize_Removes(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		forbidden string
		keep      string
	}{
		{"script", "<p>Hello</p><script>alert('xss')</script>", "script", "<p>Hello</p>"},
		{"onclick", `<p onclick="alert('xss')">Click</p>`, "onclick", "Click"},
		{"javascript href", `<a href="javascript:alert('xss')">Click</a>`, "javascript:", "Click"},
		{"iframe", `<p>Content</p><iframe src="https://evil.com"></iframe>`, "iframe", "Content"},
		{"onerror", `<img src="x" onerror="alert('xss')">`, "onerror", ""},
		{"form", `<form action="/submit"><input type="text" name="data"></form>`, "<form", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := htmlsanitize.Sanitize(tt.input)
			if strings.Contains(got, tt.forbidden) {
				t.Errorf("Sanitize(%q) = %q still contains %q", tt.input, got, tt.forbidden)
			}
			if tt.keep != "" && !strings.Contains(got, tt.keep) {
				t.Errorf("Sanitize(%q) = %q lost %q", tt.input, got, tt.keep)
			}
		})
	}
}

func TestSanitize_TableSpans(t *testing.T) {
	got := htmlsanitize.Sanitize(`<table><tr><td colspan="2" rowspan="2" class="c">Cell</td></tr></table>`)
	for _, want := range []string{`colspan="2"`, `rowspan="2"`, `class="c"`} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %s in %q", want, got)
		}
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct{ input, want string }{
		{"", ""},
		{"Hello", "Hello"},
		{"  padded  ", "padded"},
		{"Tom & Jerry", "Tom & Jerry"},
		{"<b>bold</b> move", "bold move"},
		{"hi<script>alert(1)</script>", "hi"},
		{"5 < 10", "5 < 10"},
	}
	for _, tt := range tests {
		if got := htmlsanitize.StripTags(tt.input); got != tt.want {
			t.Errorf("StripTags(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsPlainText(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"Hello, World!", true},
		{"<p>Hello</p>", false},
		{"5 < 10", true},
		{"5 > 3", true},
	}
	for _, tt := range tests {
		if got := htmlsanitize.IsPlainText(tt.input); got != tt.want {
			t.Errorf("IsPlainText(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
