// Package segment binds Chinese word-segmentation engines to the analysis
// pipeline. An Engine cuts text into byte-addressed pieces; a Segmenter runs
// an engine in search mode and places every piece on the logical position
// axis used for positional postings.
package segment

// Mode selects how an Engine decomposes text.
type Mode int

const (
	// ModeDefault emits one non-overlapping segmentation.
	ModeDefault Mode = iota
	// ModeSearch additionally emits the dictionary sub-words of long words
	// before the word itself.
	ModeSearch
)

// Piece is a word reported by an Engine. Text is text[Start:End] of the
// segmented input; Start and End are byte offsets.
type Piece struct {
	Text  string
	Start int
	End   int
}

// Word is a Piece placed on the logical position axis.
// EndPos-StartPos is the number of atomic words the piece spans.
type Word struct {
	Text     string
	Start    int
	End      int
	StartPos int
	EndPos   int
}

// Engine is a segmentation engine. Implementations must be safe for
// concurrent Cut calls once constructed.
type Engine interface {
	// Name identifies the engine in metrics and logs.
	Name() string
	// Cut segments text. Every returned piece is a non-empty view of text.
	Cut(text string, mode Mode, hmm bool) []Piece
}

// Segmenter produces the ordered word sequence a token stream iterates.
type Segmenter interface {
	Segment(text string) []Word
}
