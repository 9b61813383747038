package exevalator

import (
	"maps"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// Messages is a table of error message templates indexed by Reason. A
// template refers to the arguments of an Error as $0, $1, and so on. Reasons
// missing from a table use the English template.
//
// Messages only produce text. Nothing in the engine inspects them, so a custom
// table may phrase things however it likes.
type Messages map[Reason]string

// Format renders the message for r with the given arguments.
func (m Messages) Format(r Reason, args ...string) string {
	s, ok := m[r]
	if !ok {
		s, ok = english[r]
		if !ok {
			return r.Error()
		}
	}
	if len(args) == 0 {
		return s
	}
	pairs := make([]string, 0, 2*len(args))
	for i, a := range args {
		pairs = append(pairs, "$"+strconv.Itoa(i), a)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

// English is the default message table. It is a copy; changing it affects
// only engines created with WithMessages(English).
var English = maps.Clone(english)

// Japanese is a message table in Japanese. It is a copy, like English.
var Japanese = maps.Clone(japanese)

var english = Messages{
	EmptyExpression:             "The inputted expression is empty.",
	TooManyTokens:               "The number of tokens exceeds the limit (MaxTokenCount: '$0')",
	DeficientOpenParenthesis:    "The number of open parentheses '(' is deficient.",
	DeficientClosedParenthesis:  "The number of closed parentheses ')' is deficient.",
	EmptyParenthesis:            "The content of parentheses '()' should not be empty.",
	RightOperandRequired:        "An operand is required at the right of: '$0'",
	LeftOperandRequired:         "An operand is required at the left of: '$0'",
	RightOperatorRequired:       "An operator is required at the right of: '$0'",
	LeftOperatorRequired:        "An operator is required at the left of: '$0'",
	UnknownUnaryPrefixOperator:  "Unknown unary-prefix operator: '$0'",
	UnknownBinaryOperator:       "Unknown binary operator: '$0'",
	UnknownOperatorSyntax:       "Unknown operator syntax: '$0'",
	ExceedsMaxAstDepth:          "The depth of the AST exceeds the limit (MaxAstDepth: '$0')",
	UnexpectedPartialExpression: "Unexpected end of a partial expression",
	InvalidNumberLiteral:        "Invalid number literal: '$0'",
	InvalidMemoryAddress:        "Invalid memory address: '$0'",
	FunctionError:               "Function Error ('$0'): $1",
	VariableNotFound:            "Variable not found: '$0'",
	FunctionNotFound:            "Function not found: '$0'",
	TooLongExpression:           "The length of the expression exceeds the limit (MaxExpressionCharCount: '$0')",
	UnexpectedError:             "Unexpected error occurred: $0",
	ReevalNotAvailable:          `"Reeval" is not available before using "Eval"`,
	TooLongVariableName:         "The length of the variable name exceeds the limit (MaxNameCharCount: '$0')",
	TooLongFunctionName:         "The length of the function name exceeds the limit (MaxNameCharCount: '$0')",
	VariableAlreadyDeclared:     "The variable '$0' is already declared",
	FunctionAlreadyConnected:    "The function '$0' is already connected",
	InvalidVariableAddress:      "Invalid memory address: '$0'",
	TooManyVariables:            "The number of variables exceeds the limit (MaxVariableCount: '$0')",
}

var japanese = Messages{
	EmptyExpression:             "入力された計算式が空です。",
	TooManyTokens:               "入力トークンの数が、許容上限を超過しています (MaxTokenCount: '$0')",
	DeficientOpenParenthesis:    "開き括弧 '(' の数が足りません。",
	DeficientClosedParenthesis:  "閉じ括弧 ')' の数が足りません。",
	EmptyParenthesis:            "括弧 '()' の中が空になっていますが、何かが必要です。",
	RightOperandRequired:        "'$0' の右に、演算対象の値や変数が必要です。",
	LeftOperandRequired:         "'$0' の左に、演算対象の値や変数が必要です。",
	RightOperatorRequired:       "'$0' の右に、演算子（ + や - 等の演算記号）が必要です。",
	LeftOperatorRequired:        "'$0' の左に、演算子（ + や - 等の演算記号）が必要です。",
	UnknownUnaryPrefixOperator:  "'$0' は文法的に前置演算子と解釈されましたが、サポートされていない記号です。",
	UnknownBinaryOperator:       "'$0' は文法的に二項演算子と解釈されましたが、サポートされていない記号です。",
	UnknownOperatorSyntax:       "'$0' は文法的に演算子と推測されますが、サポートされていない書き方や記号です。",
	ExceedsMaxAstDepth:          "抽象構文木の深さが、許容上限を超過しています (MaxAstDepth: '$0')",
	UnexpectedPartialExpression: "部分式が、予期しない形で終わっています。",
	InvalidNumberLiteral:        "数値リテラル '$0' は、記法が想定外の形になっています。",
	InvalidMemoryAddress:        "アドレス '$0' は未割当か、許容領域外です。",
	FunctionError:               "関数エラー ('$0'): $1",
	VariableNotFound:            "変数が見つかりません: '$0'",
	FunctionNotFound:            "関数が見つかりません: '$0'",
	TooLongExpression:           "式の長さが、許容上限を超過しています (MaxExpressionCharCount: '$0')",
	UnexpectedError:             "通常想定されていないエラーが発生しました: $0",
	ReevalNotAvailable:          `"Reeval" は、 "Eval" を一度も使用する前にコールする事はできません。`,
	TooLongVariableName:         "変数名の長さが、許容上限を超過しています (MaxNameCharCount: '$0')",
	TooLongFunctionName:         "関数名の長さが、許容上限を超過しています (MaxNameCharCount: '$0')",
	VariableAlreadyDeclared:     "変数 '$0' は既に宣言されています。",
	FunctionAlreadyConnected:    "関数 '$0' は既に登録されています。",
	InvalidVariableAddress:      "変数のアドレス '$0' は未割当か、許容領域外です。",
	TooManyVariables:            "変数の数が、許容上限を超過しています (MaxVariableCount: '$0')",
}

var (
	messageTags    = []language.Tag{language.English, language.Japanese}
	messageTables  = []Messages{english, japanese}
	messageMatcher = language.NewMatcher(messageTags)
)

// MessagesFor returns the message table which best matches a list of BCP 47
// language tags or Accept-Language headers, e.g. "ja-JP" or "fr, ja;q=0.8".
// The result is English when nothing matches. Each call returns a new table.
func MessagesFor(langs ...string) Messages {
	_, i := language.MatchStrings(messageMatcher, langs...)
	if i < 0 || i >= len(messageTables) {
		i = 0
	}
	return maps.Clone(messageTables[i])
}
