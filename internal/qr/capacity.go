// Package qr selecciona la versión mínima de código QR capaz de contener
// una cadena alfanumérica dada, según la tabla fija de capacidades del
// estándar (ISO/IEC 18004, modo alfanumérico).
package qr

import (
	"errors"
	"fmt"
)

// ECLevel is the error-correction strength of a QR symbol. Higher levels
// trade data capacity for scan robustness.
type ECLevel string

const (
	LevelL ECLevel = "L"
	LevelM ECLevel = "M"
	LevelQ ECLevel = "Q"
	LevelH ECLevel = "H"
)

// DefaultLevel is L: the pipeline favors data capacity over redundancy so
// large records still fit a printable symbol. Callers may override.
const DefaultLevel = LevelL

var ErrCapacityExceeded = errors.New("data exceeds maximum barcode capacity")

// ParseLevel validates an error-correction level from config or flags.
func ParseLevel(s string) (ECLevel, error) {
	switch ECLevel(s) {
	case LevelL, LevelM, LevelQ, LevelH:
		return ECLevel(s), nil
	}
	return "", fmt.Errorf("unknown error-correction level %q", s)
}

// alphanumericCapacity[v-1] holds the maximum alphanumeric character
// count of version v at levels L, M, Q, H. Values are protocol constants
// from the QR standard capacity table.
var alphanumericCapacity = [40][4]int{
	{25, 20, 16, 10},
	{47, 38, 29, 20},
	{77, 61, 47, 35},
	{114, 90, 67, 50},
	{154, 122, 87, 64},
	{195, 154, 108, 84},
	{224, 178, 130, 93},
	{279, 221, 157, 122},
	{335, 262, 189, 143},
	{395, 311, 221, 174},
	{468, 366, 259, 200},
	{535, 419, 296, 227},
	{619, 483, 352, 259},
	{667, 528, 376, 283},
	{758, 600, 426, 321},
	{854, 656, 470, 365},
	{938, 734, 531, 408},
	{1046, 816, 574, 452},
	{1153, 909, 644, 493},
	{1249, 970, 702, 557},
	{1352, 1035, 742, 587},
	{1460, 1134, 823, 640},
	{1588, 1248, 890, 672},
	{1704, 1326, 963, 744},
	{1853, 1451, 1041, 779},
	{1990, 1542, 1094, 864},
	{2132, 1637, 1172, 910},
	{2223, 1732, 1263, 958},
	{2369, 1839, 1322, 1016},
	{2520, 1994, 1429, 1080},
	{2677, 2113, 1499, 1150},
	{2840, 2238, 1618, 1226},
	{3009, 2369, 1700, 1307},
	{3183, 2506, 1787, 1394},
	{3351, 2632, 1867, 1431},
	{3537, 2780, 1966, 1530},
	{3729, 2894, 2071, 1591},
	{3927, 3054, 2181, 1658},
	{4087, 3220, 2298, 1774},
	{4296, 3391, 2420, 1852},
}

func levelColumn(level ECLevel) (int, error) {
	switch level {
	case LevelL:
		return 0, nil
	case LevelM:
		return 1, nil
	case LevelQ:
		return 2, nil
	case LevelH:
		return 3, nil
	}
	return 0, fmt.Errorf("unknown error-correction level %q", level)
}

// Capacity returns the maximum alphanumeric character count for a version
// (1..40) at the given level.
func Capacity(version int, level ECLevel) (int, error) {
	if version < 1 || version > 40 {
		return 0, fmt.Errorf("version %d out of range 1..40", version)
	}
	col, err := levelColumn(level)
	if err != nil {
		return 0, err
	}
	return alphanumericCapacity[version-1][col], nil
}

// SelectVersion returns the smallest version whose alphanumeric capacity
// holds length characters at the given level. When even version 40 is too
// small it returns ErrCapacityExceeded, never a truncated symbol.
func SelectVersion(length int, level ECLevel) (int, error) {
	col, err := levelColumn(level)
	if err != nil {
		return 0, err
	}
	for v := 0; v < len(alphanumericCapacity); v++ {
		if alphanumericCapacity[v][col] >= length {
			return v + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: %d chars > version 40 level %s (%d)",
		ErrCapacityExceeded, length, level, alphanumericCapacity[39][col])
}
