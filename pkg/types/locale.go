package types

// Locale holds the separators the tokenizer needs. The array-row separator is
// derived from the argument separator.
type Locale struct {
	DecimalSeparator    string
	FormulaArgSeparator string
}

// DefaultLocale is the canonical locale formulas are stored in.
var DefaultLocale = Locale{
	DecimalSeparator:    ".",
	FormulaArgSeparator: ",",
}

// NewLocale builds a locale, falling back to the default separators for
// empty values.
func NewLocale(decimalSeparator, argSeparator string) Locale {
	l := DefaultLocale
	if decimalSeparator != "" {
		l.DecimalSeparator = decimalSeparator
	}
	if argSeparator != "" {
		l.FormulaArgSeparator = argSeparator
	}
	return l
}

// ArrayRowSeparator returns ";" unless the argument separator already is
// ";", in which case rows are separated by "\".
func (l Locale) ArrayRowSeparator() string {
	if l.FormulaArgSeparator == ";" {
		return `\`
	}
	return ";"
}
