package coercer

import (
	"math"
	"strconv"
	"strings"

	"hrdash/domain/datareadiness/ingestion"
	"hrdash/domain/dataset"
)

// TypeCoercer handles deterministic type coercion of raw cells
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion thresholds and rules
type CoercionConfig struct {
	NumericThreshold   float64 `json:"numeric_threshold"`  // % of values that must parse as numbers
	OrdinalMaxLevels   int     `json:"ordinal_max_levels"` // integer columns with at most this many levels are ordinal
	OrdinalUniqueRatio float64 `json:"ordinal_unique_ratio"`
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold:   0.8, // 80% must parse as numbers
		OrdinalMaxLevels:   20,
		OrdinalUniqueRatio: 0.1,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// ParseNumber parses a numeric cell. It accepts thousands separators, currency
// symbols, percent signs and accounting negatives like (123).
func (c *TypeCoercer) ParseNumber(strVal string) (float64, bool) {
	cleanVal := strings.TrimSpace(strVal)
	if cleanVal == "" {
		return 0, false
	}

	// Handle parentheses for negative numbers: (123) -> -123
	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	for _, symbol := range []string{"$", "€", "£", "¥", "USD", "EUR", "GBP", "JPY", "%"} {
		cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
	}
	cleanVal = strings.TrimSpace(cleanVal)

	hasComma := strings.Contains(cleanVal, ",")
	hasPeriod := strings.Contains(cleanVal, ".")
	hasSpace := strings.Contains(cleanVal, " ")

	switch {
	case hasComma && (hasPeriod || hasSpace):
		// 1.234,56 or 1 234,56 when the last comma is followed by a short run of digits
		commaIdx := strings.LastIndex(cleanVal, ",")
		afterComma := cleanVal[commaIdx+1:]
		if len(afterComma) <= 2 && isDigits(afterComma) && commaIdx > strings.LastIndex(cleanVal, ".") {
			cleanVal = strings.NewReplacer(".", "", " ", "", ",", ".").Replace(cleanVal)
		} else {
			cleanVal = strings.NewReplacer(",", "", " ", "").Replace(cleanVal)
		}
	case hasComma:
		// 45,000 is a thousands separator, 3,5 a decimal comma
		commaIdx := strings.LastIndex(cleanVal, ",")
		if len(cleanVal)-commaIdx-1 == 3 {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		}
	default:
		cleanVal = strings.ReplaceAll(cleanVal, " ", "")
	}

	if isNegative {
		cleanVal = "-" + cleanVal
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int                 `json:"total_count"`
	ValidCount      int                 `json:"valid_count"`
	NumericCount    int                 `json:"numeric_count"`
	IntegerCount    int                 `json:"integer_count"`
	UniqueCount     int                 `json:"unique_count"`
	NumericRatio    float64             `json:"numeric_ratio"`
	RecommendedType ingestion.ValueType `json:"recommended_type"`
}

// AnalyzeTypeDistribution analyzes raw cells to determine the best type.
// Empty cells count toward TotalCount only.
func (c *TypeCoercer) AnalyzeTypeDistribution(values []string) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(values)}
	unique := make(map[string]struct{})

	for _, val := range values {
		val = strings.TrimSpace(val)
		if val == "" {
			continue
		}
		analysis.ValidCount++
		unique[val] = struct{}{}

		if n, ok := c.ParseNumber(val); ok {
			analysis.NumericCount++
			if n == math.Trunc(n) {
				analysis.IntegerCount++
			}
		}
	}
	analysis.UniqueCount = len(unique)

	if analysis.ValidCount == 0 {
		analysis.RecommendedType = ingestion.ValueTypeMissing
		return analysis
	}

	analysis.NumericRatio = float64(analysis.NumericCount) / float64(analysis.ValidCount)
	analysis.RecommendedType = ingestion.ValueTypeString
	if analysis.NumericRatio >= c.config.NumericThreshold {
		analysis.RecommendedType = ingestion.ValueTypeNumeric
	}

	return analysis
}

// InferColumn decides the dashboard column for an undeclared header.
// Numeric columns stay numeric and become ordinal when every value is an
// integer and the level count is low. Everything else is categorical.
func (c *TypeCoercer) InferColumn(name string, values []string) dataset.Column {
	analysis := c.AnalyzeTypeDistribution(values)
	col := dataset.Column{Name: name, Kind: dataset.KindCategorical}

	// a column needs every non-empty cell numeric, otherwise ingestion would fail
	if analysis.RecommendedType != ingestion.ValueTypeNumeric || analysis.NumericCount != analysis.ValidCount {
		return col
	}
	col.Kind = dataset.KindNumeric
	uniqueRatio := float64(analysis.UniqueCount) / float64(analysis.ValidCount)
	if analysis.IntegerCount == analysis.NumericCount &&
		analysis.UniqueCount <= c.config.OrdinalMaxLevels &&
		uniqueRatio < c.config.OrdinalUniqueRatio {
		col.Ordinal = true
	}
	return col
}
