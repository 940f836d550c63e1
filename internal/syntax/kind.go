package syntax

import (
	"strings"
)

// Kind is the closed set of syntax constructs a rule pattern can target.
type Kind int

const (
	// KindUnknown marks a pattern whose node type is not supported. It never matches.
	KindUnknown Kind = iota
	// KindOther is any node outside the supported set, including anonymous tokens.
	KindOther
	KindCall
	KindAttribute
	KindImport
	KindImportFrom
	KindFunctionDef
	KindClassDef
	KindAssign
	KindAnnAssign
	KindLambda
	KindSubscript
	KindAssert
	KindRaise
	KindWith
	KindTry
	KindGlobal
)

type kindInfo struct {
	name string
	// nodeType is empty for kinds that are refinements of another node type.
	nodeType       string
	extraNodeTypes []string
	aliases        []string
}

// kinds maps each supported kind to its canonical name, its tree-sitter-python
// node types and the extra spellings accepted in rule files.
var kinds = map[Kind]kindInfo{
	KindCall:        {name: "Call", nodeType: "call", aliases: []string{"call expression"}},
	KindAttribute:   {name: "Attribute", nodeType: "attribute", aliases: []string{"attribute access"}},
	KindImport:      {name: "Import", nodeType: "import_statement", aliases: []string{"import statement"}},
	KindImportFrom:  {name: "ImportFrom", nodeType: "import_from_statement", extraNodeTypes: []string{"future_import_statement"}, aliases: []string{"import from statement"}},
	KindFunctionDef: {name: "FunctionDef", nodeType: "function_definition", aliases: []string{"function definition"}},
	KindClassDef:    {name: "ClassDef", nodeType: "class_definition", aliases: []string{"class definition"}},
	KindAssign:      {name: "Assign", nodeType: "assignment", aliases: []string{"assignment"}},
	KindAnnAssign:   {name: "AnnAssign", aliases: []string{"annotated assignment"}},
	KindLambda:      {name: "Lambda", nodeType: "lambda"},
	KindSubscript:   {name: "Subscript", nodeType: "subscript"},
	KindAssert:      {name: "Assert", nodeType: "assert_statement", aliases: []string{"assert statement"}},
	KindRaise:       {name: "Raise", nodeType: "raise_statement", aliases: []string{"raise statement"}},
	KindWith:        {name: "With", nodeType: "with_statement", aliases: []string{"with statement"}},
	KindTry:         {name: "Try", nodeType: "try_statement", aliases: []string{"try statement"}},
	KindGlobal:      {name: "Global", nodeType: "global_statement", aliases: []string{"global statement"}},
}

var (
	kindsBySpelling = map[string]Kind{}
	kindsByNodeType = map[string]Kind{}
)

func init() {
	for k, info := range kinds {
		kindsBySpelling[normalizeSpelling(info.name)] = k
		for _, alias := range info.aliases {
			kindsBySpelling[normalizeSpelling(alias)] = k
		}
		if info.nodeType != "" {
			kindsBySpelling[normalizeSpelling(info.nodeType)] = k
			kindsByNodeType[info.nodeType] = k
		}
		for _, nodeType := range info.extraNodeTypes {
			kindsBySpelling[normalizeSpelling(nodeType)] = k
			kindsByNodeType[nodeType] = k
		}
	}
}

// normalizeSpelling lower-cases s and drops spaces, underscores and dashes,
// so "call expression", "call_expression" and "CallExpression" are one spelling.
func normalizeSpelling(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case ' ', '_', '-', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ParseKind resolves a rule-file node type to a Kind.
// It returns KindUnknown and false for spellings outside the supported set.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindsBySpelling[normalizeSpelling(name)]
	if !ok {
		return KindUnknown, false
	}
	return k, true
}

// kindOfNodeType classifies a named tree-sitter node type.
func kindOfNodeType(nodeType string) Kind {
	if k, ok := kindsByNodeType[nodeType]; ok {
		return k
	}
	return KindOther
}

// SupportedKinds returns the canonical names of all matchable kinds in declaration order.
func SupportedKinds() []string {
	names := make([]string, 0, len(kinds))
	for k := KindCall; k <= KindGlobal; k++ {
		names = append(names, kinds[k].name)
	}
	return names
}

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "Unknown"
	case KindOther:
		return "Other"
	}
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return "Unknown"
}
