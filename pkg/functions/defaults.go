package functions

// Default returns a new registry holding the descriptors of common
// spreadsheet functions.
func Default() *Registry {
	return NewRegistry().Add(
		// Math
		Describe("SUM",
			Arg("value1 (number, range<number>)", "The first number or range to add together."),
			Arg("value2 (number, range<number>, repeating)", "Additional numbers or ranges to add to value1."),
		),
		Describe("PI"),
		Describe("RAND"),

		// Statistical
		Describe("AVERAGE",
			Arg("value1 (number, range<number>)", "The first value or range to consider when calculating the average value."),
			Arg("value2 (number, range<number>, repeating)", "Additional values or ranges to consider when calculating the average value."),
		),
		Describe("MIN",
			Arg("value1 (number, range<number>)", "The first value or range to consider when calculating the minimum value."),
			Arg("value2 (number, range<number>, repeating)", "Additional values or ranges to consider when calculating the minimum value."),
		),
		Describe("MAX",
			Arg("value1 (number, range<number>)", "The first value or range to consider when calculating the maximum value."),
			Arg("value2 (number, range<number>, repeating)", "Additional values or ranges to consider when calculating the maximum value."),
		),
		Describe("COUNT",
			Arg("value1 (number, any, range<number>)", "The first value or range to consider when counting."),
			Arg("value2 (number, any, range<number>, repeating)", "Additional values or ranges to consider when counting."),
		),
		Describe("SUMIFS",
			Arg("sum_range (range)", "The range to sum."),
			Arg("criteria_range1 (range)", "The range to check against criterion1."),
			Arg("criterion1 (string)", "The pattern or test to apply to criteria_range1."),
			Arg("criteria_range2 (range, repeating)", "Additional ranges to check."),
			Arg("criterion2 (string, repeating)", "Additional criteria to check."),
		),
		Describe("COUNTIFS",
			Arg("criteria_range1 (range)", "The range to check against criterion1."),
			Arg("criterion1 (string)", "The pattern or test to apply to criteria_range1."),
			Arg("criteria_range2 (range, repeating)", "Additional ranges to check."),
			Arg("criterion2 (string, repeating)", "Additional criteria to check."),
		),

		// Logical
		Describe("IF",
			Arg("logical_expression (boolean)", "An expression or reference to a cell containing an expression that represents some logical value."),
			Arg("value_if_true (any)", "The value the function returns if logical_expression is TRUE."),
			Arg("value_if_false (any, default=FALSE)", "The value the function returns if logical_expression is FALSE."),
		),
		Describe("IFS",
			Arg("condition1 (boolean)", "The first condition to be evaluated."),
			Arg("value1 (any)", "The returned value if condition1 is TRUE."),
			Arg("condition2 (boolean, repeating)", "Additional conditions to be evaluated if the previous ones are FALSE."),
			Arg("value2 (any, repeating)", "Additional values to be returned if their corresponding conditions are TRUE."),
		),
		Describe("SWITCH",
			Arg("expression (any)", "The value to be checked."),
			Arg("case (any, repeating)", "The cases to be checked against expression."),
			Arg("value (any, repeating)", "The corresponding values to be returned if their case matches expression."),
			Arg("default (any, optional)", "An optional default value to be returned if none of the cases match expression."),
		),
		Describe("AND",
			Arg("logical_expression1 (boolean, range<boolean>)", "An expression or reference to a cell containing an expression that represents some logical value."),
			Arg("logical_expression2 (boolean, range<boolean>, repeating)", "More expressions that represent logical values."),
		),
		Describe("OR",
			Arg("logical_expression1 (boolean, range<boolean>)", "An expression or reference to a cell containing an expression that represents some logical value."),
			Arg("logical_expression2 (boolean, range<boolean>, repeating)", "More expressions that represent logical values."),
		),
		Describe("NOT",
			Arg("logical_expression (boolean)", "An expression or reference to a cell holding an expression that represents some logical value."),
		),

		// Text
		Describe("CONCATENATE",
			Arg("string1 (string, range<string>)", "The initial string."),
			Arg("string2 (string, range<string>, repeating)", "More strings to append in sequence."),
		),

		// Info
		Describe("CELL",
			Arg("info_type (string)", "The type of information requested."),
			Arg("reference (meta)", "The reference to the cell."),
		),
		Describe("ISERROR",
			Arg("value (any)", "The value to be verified as an error type."),
		),

		// Lookup
		Describe("ROW",
			Arg("cell_reference (meta, optional)", "The cell whose row number will be returned."),
		),
		Describe("COLUMN",
			Arg("cell_reference (meta, optional)", "The cell whose column number will be returned."),
		),
		Describe("VLOOKUP",
			Arg("search_key (string, number, boolean)", "The value to search for."),
			Arg("range (range)", "The range to consider for the search."),
			Arg("index (number)", "The column index of the value to be returned."),
			Arg("is_sorted (boolean, default=TRUE)", "Indicates whether the column to be searched is sorted."),
		),
		Describe("INDEX",
			Arg("reference (range)", "The range of cells from which the values are returned."),
			Arg("row (number, default=0)", "The index of the row to be returned."),
			Arg("column (number, default=0)", "The index of the column to be returned."),
		),
		Describe("OFFSET",
			Arg("cell_reference (meta)", "The starting point from which to count the offset rows and columns."),
			Arg("offset_rows (number)", "The number of rows to offset by."),
			Arg("offset_columns (number)", "The number of columns to offset by."),
			Arg("height (number, optional)", "The number of rows of the range to return starting at the offset target."),
			Arg("width (number, optional)", "The number of columns of the range to return starting at the offset target."),
		),

		// Date
		Describe("NOW"),
		Describe("TODAY"),
	)
}
