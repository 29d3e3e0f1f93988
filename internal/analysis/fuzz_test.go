package analysis

import (
	"testing"
	"unicode/utf8"
)

func checkOffsets(t *testing.T, input string, tokens []Token) {
	for i, tok := range tokens {
		if tok.OffsetFrom < 0 || tok.OffsetTo > len(input) || tok.OffsetFrom >= tok.OffsetTo {
			t.Fatalf("token %d: invalid offsets from=%d to=%d input_len=%d", i, tok.OffsetFrom, tok.OffsetTo, len(input))
		}
		if tok.PositionLength < 1 {
			t.Errorf("token %d: position length %d", i, tok.PositionLength)
		}
		if tok.Text == "" {
			t.Error("empty term produced")
		}
	}
}

func FuzzStandardTokenizer(f *testing.F) {
	f.Add("Hello World")
	f.Add("")
	f.Add("café résumé naïve")
	f.Add("hello-world foo_bar")

	f.Fuzz(func(t *testing.T, input string) {
		tokens := Collect(NewStandardTokenizer().TokenStream(input))
		checkOffsets(t, input, tokens)
		for i, tok := range tokens {
			if tok.Position != i {
				t.Errorf("token %d position = %d, want %d", i, tok.Position, i)
			}
		}
	})
}

func FuzzWhitespaceTokenizer(f *testing.F) {
	f.Add("Hello World")
	f.Add("")
	f.Add("\t\n\r mixed whitespace")

	f.Fuzz(func(t *testing.T, input string) {
		tokens := Collect(NewWhitespaceTokenizer().TokenStream(input))
		checkOffsets(t, input, tokens)
		for i, tok := range tokens {
			if tok.Text != input[tok.OffsetFrom:tok.OffsetTo] {
				t.Errorf("token %d text %q does not match its offsets", i, tok.Text)
			}
		}
	})
}

func FuzzJiebaTokenizer(f *testing.F) {
	f.Add("测试")
	f.Add("")
	f.Add("北京大学")
	f.Add("Hello 世界, 中华人民共和国人民大会堂")

	tok := NewJiebaTokenizer()
	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("segmentation expects utf-8")
		}
		tokens := Collect(tok.TokenStream(input))
		checkOffsets(t, input, tokens)
		for i, tk := range tokens {
			if tk.Text != input[tk.OffsetFrom:tk.OffsetTo] {
				t.Errorf("token %d text %q does not match its offsets", i, tk.Text)
			}
		}
	})
}
