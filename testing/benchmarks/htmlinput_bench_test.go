package benchmarks

import (
	"context"
	"testing"

	"github.com/zoobzio/htmlinput"
	"github.com/zoobzio/htmlinput/json"
	htmltest "github.com/zoobzio/htmlinput/testing"
)

func BenchmarkSanitize_Tree(b *testing.B) {
	input := htmltest.LongMarkup(20)
	p := htmltest.SpanPolicy()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = htmlinput.TreeEngine{}.Sanitize(input, p)
	}
}

func BenchmarkSanitize_Bluemonday(b *testing.B) {
	input := htmltest.LongMarkup(20)
	p := htmltest.SpanPolicy()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = htmlinput.BluemondayEngine{}.Sanitize(input, p)
	}
}

func BenchmarkMeasure(b *testing.B) {
	input := htmltest.LongMarkup(20)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = htmlinput.Measure(input, htmlinput.EncodingChars)
	}
}

func BenchmarkDecodeEntities_Plain(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = htmlinput.DecodeEntities("no entities in this string at all")
	}
}

func BenchmarkSchema_Validate(b *testing.B) {
	s := htmlinput.NewSchema("body",
		htmlinput.Must(htmlinput.AllowedTags(htmltest.SpanPolicy())),
		htmlinput.Must(htmlinput.DisplayMin(5)),
		htmlinput.Must(htmlinput.DisplayMax(140)),
	)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Validate(htmltest.DirtyMarkup)
	}
}

func BenchmarkProcessor_Receive(b *testing.B) {
	c := json.New()
	proc, err := htmlinput.NewProcessor[htmltest.Article](c)
	if err != nil {
		b.Fatal(err)
	}
	data, _ := c.Marshal(htmltest.DirtyArticle())

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = proc.Receive(context.Background(), data)
	}
}

func BenchmarkProcessor_Send(b *testing.B) {
	proc, err := htmlinput.NewProcessor[htmltest.Article](json.New())
	if err != nil {
		b.Fatal(err)
	}
	article := htmltest.DirtyArticle()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = proc.Send(context.Background(), article)
	}
}

func BenchmarkNewProcessor_Cached(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = htmlinput.NewProcessor[htmltest.Article](json.New())
	}
}
