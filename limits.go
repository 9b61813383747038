package exevalator

// Limits on the input accepted by an Engine.
const (
	// MaxExpressionCharCount is the maximum number of characters in an
	// expression.
	MaxExpressionCharCount = 256
	// MaxNameCharCount is the maximum number of characters in the name of a
	// variable or function.
	MaxNameCharCount = 64
	// MaxTokenCount is the maximum number of tokens in an expression.
	MaxTokenCount = 64
	// MaxAstDepth is the maximum depth of the syntax tree of an expression,
	// counting the root as depth 1.
	MaxAstDepth = 32
	// MaxVariableCount is the maximum number of variables which may be
	// declared on one Engine.
	MaxVariableCount = 1024
)

// initialMemorySize is the number of variable slots an Engine reserves before
// the first declaration. The reservation doubles whenever it fills.
const initialMemorySize = 64
