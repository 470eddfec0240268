package lang

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

const benchSource = `
let total = 0;
let scale: float = 1.5;
for i in 0..100 {
  for j in 0..10 {
    total = total + i * j - (j / 2);
  }
}
print(total * scale);
`

func BenchmarkTokenize(b *testing.B) {
	for b.Loop() {
		if _, err := Tokenize(benchSource); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse(b *testing.B) {
	toks, err := Tokenize(benchSource)
	if err != nil {
		b.Fatal(err)
	}

	ctx := context.Background()

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := Parse(ctx, toks); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkParseString_Caching measures repeated parses served from cache.
func BenchmarkParseString_Caching(b *testing.B) {
	ctx := context.Background()

	if _, err := ParseString(ctx, benchSource); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := ParseString(ctx, benchSource); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseReader(b *testing.B) {
	ctx := context.Background()

	for i := 0; i < b.N; i++ {
		if _, err := ParseReader(ctx, strings.NewReader(benchSource)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkExecute(b *testing.B) {
	ctx := context.Background()

	prog, err := ParseString(ctx, benchSource)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		in := NewInterpreter(WithOutput(io.Discard))
		if err := in.Execute(ctx, prog); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFormat(b *testing.B) {
	prog, err := ParseString(context.Background(), benchSource)
	if err != nil {
		b.Fatal(err)
	}

	var buf bytes.Buffer

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		buf.Reset()

		if err := prog.Format(context.Background(), &buf, 2); err != nil {
			b.Fatal(err)
		}
	}
}
