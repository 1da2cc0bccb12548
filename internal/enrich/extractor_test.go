package enrich

import (
	"strings"
	"testing"
)

func TestSnippetPrefersArticleBodyContainer(t *testing.T) {
	t.Parallel()

	html := `
	<html><body>
	  <div class="sidebar"><p>Subscribe to our newsletter</p></div>
	  <div class="article-body">
	    <p>   </p>
	    <p>Lagos officials announced the new port levy on Monday.</p>
	  </div>
	</body></html>`

	got := NewExtractor().Snippet(html)
	if got != "Lagos officials announced the new port levy on Monday." {
		t.Fatalf("unexpected snippet: %q", got)
	}
}

func TestSnippetFallsBackToFirstParagraph(t *testing.T) {
	t.Parallel()

	html := `<html><body><div class="promo"><p>First paragraph anywhere.</p></div></body></html>`

	got := NewExtractor().Snippet(html)
	if got != "First paragraph anywhere." {
		t.Fatalf("unexpected snippet: %q", got)
	}
}

func TestSnippetTruncation(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 600)
	html := "<html><body><article><p>" + long + "</p></article></body></html>"

	got := NewExtractor().Snippet(html)
	want := strings.Repeat("a", snippetMaxLen) + truncationMarker
	if got != want {
		t.Fatalf("expected %d-rune truncated snippet, got %d runes", snippetMaxLen, len(got))
	}
}

func TestSnippetEmptyDocument(t *testing.T) {
	t.Parallel()

	if got := NewExtractor().Snippet("<html><body><div>no paragraphs here</div></body></html>"); got != "" {
		t.Fatalf("expected empty snippet, got %q", got)
	}
}

func TestImagePrefersOpenGraph(t *testing.T) {
	t.Parallel()

	html := `
	<html><head>
	  <meta property="og:image" content="https://cdn.example.com/photo123.jpg">
	  <meta name="twitter:image" content="https://cdn.example.com/card.jpg">
	</head><body><img src="/inline.png"></body></html>`

	got := NewExtractor().Image(html, "https://news.example/story")
	if got != "https://cdn.example.com/photo123.jpg" {
		t.Fatalf("unexpected image: %q", got)
	}
}

func TestImageRejectedCandidateContinuesSearch(t *testing.T) {
	t.Parallel()

	html := `
	<html><head>
	  <meta property="og:image" content="https://cdn.example.com/site-logo.png">
	</head><body>
	  <div class="article-body"><img src="/uploads/scene.jpg"></div>
	</body></html>`

	got := NewExtractor().Image(html, "https://news.example/story")
	if got != "https://news.example/uploads/scene.jpg" {
		t.Fatalf("expected relative body image resolved against page URL, got %q", got)
	}
}

func TestImageFallsBackToAnyImg(t *testing.T) {
	t.Parallel()

	html := `<html><body><footer><img src="https://cdn.example.com/team.jpg"></footer></body></html>`

	got := NewExtractor().Image(html, "https://news.example/story")
	if got != "https://cdn.example.com/team.jpg" {
		t.Fatalf("unexpected image: %q", got)
	}
}

func TestImageNoValidCandidate(t *testing.T) {
	t.Parallel()

	html := `<html><body><img src="https://cdn.example.com/logo.png"><img src="https://ads.example.com/banner.jpg"></body></html>`

	if got := NewExtractor().Image(html, "https://news.example/story"); got != "" {
		t.Fatalf("expected no image, got %q", got)
	}
}
