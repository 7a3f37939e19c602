package typeset

// BlockKind discriminates the layout blocks a compiled document is made of.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockListItem
)

// Block is one laid-out unit of a compiled document.
type Block struct {
	Kind BlockKind
	// Level is the heading depth (1-3); zero for other kinds.
	Level int
	Text  string
}

// Document is the engine's compiled output, ready for encoding.
type Document struct {
	Blocks []Block
}
