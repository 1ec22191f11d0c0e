package librarymodel

import (
	"fmt"
	"strconv"
	"strings"
)

// NuGetLogCode identifies a diagnostic, written as "NU" followed by four
// digits.
type NuGetLogCode int

const (
	// Undefined is the code of a message that carries none.
	Undefined NuGetLogCode = 0

	NU1000 NuGetLogCode = 1000
	NU1001 NuGetLogCode = 1001
	NU1100 NuGetLogCode = 1100
	NU1101 NuGetLogCode = 1101
	NU1102 NuGetLogCode = 1102
	NU1103 NuGetLogCode = 1103
	NU1105 NuGetLogCode = 1105
	NU1107 NuGetLogCode = 1107
	NU1201 NuGetLogCode = 1201
	NU1202 NuGetLogCode = 1202
	NU1500 NuGetLogCode = 1500
	NU1601 NuGetLogCode = 1601
	NU1603 NuGetLogCode = 1603
	NU1605 NuGetLogCode = 1605
	NU1701 NuGetLogCode = 1701
	NU1801 NuGetLogCode = 1801
	NU1900 NuGetLogCode = 1900
	NU1901 NuGetLogCode = 1901
	NU1902 NuGetLogCode = 1902
	NU1903 NuGetLogCode = 1903
	NU1904 NuGetLogCode = 1904
	NU5500 NuGetLogCode = 5500
)

// ParseLogCode parses "NU1605" (or "Undefined"), ignoring case.
func ParseLogCode(s string) (NuGetLogCode, bool) {
	if strings.EqualFold(s, "Undefined") {
		return Undefined, true
	}
	if len(s) != 6 || !strings.EqualFold(s[:2], "NU") {
		return Undefined, false
	}
	n, err := strconv.Atoi(s[2:])
	if err != nil || n < 1000 {
		return Undefined, false
	}
	return NuGetLogCode(n), true
}

// ParseLogCodes parses every valid code in values and drops the rest.
func ParseLogCodes(values []string) []NuGetLogCode {
	var codes []NuGetLogCode
	for _, v := range values {
		if code, ok := ParseLogCode(v); ok {
			codes = append(codes, code)
		}
	}
	return codes
}

func (c NuGetLogCode) String() string {
	if c == Undefined {
		return "Undefined"
	}
	return fmt.Sprintf("NU%04d", int(c))
}

// LogLevel is the severity of a diagnostic.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelVerbose
	LogLevelInformation
	LogLevelMinimal
	LogLevelWarning
	LogLevelError
)

var logLevelNames = [...]string{"Debug", "Verbose", "Information", "Minimal", "Warning", "Error"}

// ParseLogLevel parses a level name, ignoring case.
func ParseLogLevel(s string) (LogLevel, bool) {
	for i, name := range logLevelNames {
		if strings.EqualFold(s, name) {
			return LogLevel(i), true
		}
	}
	return LogLevelDebug, false
}

func (l LogLevel) String() string {
	if l < 0 || int(l) >= len(logLevelNames) {
		return "LogLevel(" + strconv.Itoa(int(l)) + ")"
	}
	return logLevelNames[l]
}

// WarningLevel grades warnings, Severe being the most important.
type WarningLevel int

const (
	WarningSevere WarningLevel = iota
	WarningImportant
	WarningMinimal
	WarningDefault
)

var warningLevelNames = [...]string{"Severe", "Important", "Minimal", "Default"}

func (w WarningLevel) String() string {
	if w < 0 || int(w) >= len(warningLevelNames) {
		return "WarningLevel(" + strconv.Itoa(int(w)) + ")"
	}
	return warningLevelNames[w]
}
