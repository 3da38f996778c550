package sources

import (
	"errors"
	"testing"

	"github.com/139QQ/news-look-sub005/models"
)

func TestClassifyURL(t *testing.T) {
	s := newSina()
	tests := []struct {
		url  string
		want models.URLKind
	}{
		{"https://finance.sina.com.cn/stock/s/2024-01-05/doc-1.shtml", models.URLArticle},
		{"https://sax.sina.com.cn/click?type=2", models.URLAdPage},
		{"https://app.sina.com.cn/download/finance", models.URLDownload},
		{"https://example.com/whatever", models.URLUnknown},
	}
	for _, tt := range tests {
		if got := s.ClassifyURL(tt.url); got != tt.want {
			t.Errorf("ClassifyURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestClassifyURL_EastmoneyBlocklist(t *testing.T) {
	e := newEastmoney()
	if got := e.ClassifyURL("https://acttg.eastmoney.com/pub/apmobile"); got != models.URLAdPage {
		t.Errorf("ClassifyURL(campaign URL) = %v, want ad", got)
	}
	if got := e.ClassifyURL("https://finance.eastmoney.com/a/202401051.html"); got != models.URLArticle {
		t.Errorf("ClassifyURL(article URL) = %v, want article", got)
	}
}

func TestSinaParse(t *testing.T) {
	html := `<html><body>
		<h1 class="main-title">两市成交额突破万亿元</h1>
		<span class="date">2024年01月05日 10:30</span>
		<a class="source">新浪财经</a>
		<div id="artibody"><p>今日两市成交额放大，突破万亿元关口。</p></div>
	</body></html>`

	fields, err := newSina().Parse("https://finance.sina.com.cn/stock/doc-1.shtml", []byte(html))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if fields.Title != "两市成交额突破万亿元" {
		t.Errorf("Title = %q", fields.Title)
	}
	if fields.Body == "" {
		t.Error("Body is empty")
	}
	if fields.Byline != "新浪财经" {
		t.Errorf("Byline = %q, want 新浪财经", fields.Byline)
	}
}

func TestSinaParse_MissingTitle(t *testing.T) {
	html := `<html><body><div id="artibody">正文内容</div></body></html>`
	_, err := newSina().Parse("https://finance.sina.com.cn/doc-2.shtml", []byte(html))

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error type = %T, want *ParseError", err)
	}
	if perr.Missing != "title" {
		t.Errorf("ParseError.Missing = %q, want title", perr.Missing)
	}
}

func TestEnabled(t *testing.T) {
	adapters, err := Enabled([]string{"新浪财经", "东方财富"})
	if err != nil {
		t.Fatalf("Enabled() error = %v", err)
	}
	if len(adapters) != 2 {
		t.Fatalf("Enabled() returned %d adapters, want 2", len(adapters))
	}
	if adapters[0].Name() != "新浪财经" {
		t.Errorf("first adapter = %q", adapters[0].Name())
	}

	if _, err := Enabled([]string{"不存在的来源"}); err == nil {
		t.Error("Enabled() error = nil for unregistered source, want error")
	}
}

func TestSourceForURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://finance.sina.com.cn/stock/doc-1.shtml", "新浪财经"},
		{"https://finance.eastmoney.com/a/1.html", "东方财富"},
		{"https://money.163.com/article/2.html", "网易财经"},
		{"https://www.example.com/news/3", ""},
		{"::bad::", ""},
	}
	for _, tt := range tests {
		if got := SourceForURL(tt.url); got != tt.want {
			t.Errorf("SourceForURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
