package cli

import (
	"reflect"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// testBooleanFlagName defines the flag registered in boolean flag tests.
const testBooleanFlagName = "hidden"

// newBooleanFlagSet registers a boolean flag on a fresh flag set and returns both.
func newBooleanFlagSet(defaultValue bool) (*pflag.FlagSet, *bool) {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	target := new(bool)
	registerBooleanFlag(flagSet, target, testBooleanFlagName, defaultValue, "usage")
	return flagSet, target
}

// TestRegisterBooleanFlagDefault verifies the registered default value.
func TestRegisterBooleanFlagDefault(testingInstance *testing.T) {
	_, target := newBooleanFlagSet(true)
	if !*target {
		testingInstance.Fatal("expected default true")
	}
}

// TestBooleanFlagLenientLiterals verifies lenient literal parsing.
func TestBooleanFlagLenientLiterals(testingInstance *testing.T) {
	testCases := []struct {
		literal  string
		expected bool
	}{
		{"yes", true},
		{"on", true},
		{"1", true},
		{"no", false},
		{"off", false},
		{"0", false},
	}
	for _, testCase := range testCases {
		flagSet, target := newBooleanFlagSet(false)
		if parseError := flagSet.Parse([]string{"--" + testBooleanFlagName + "=" + testCase.literal}); parseError != nil {
			testingInstance.Fatalf("parse failed for %q: %v", testCase.literal, parseError)
		}
		if *target != testCase.expected {
			testingInstance.Errorf("literal %q parsed as %v", testCase.literal, *target)
		}
	}
}

// TestBooleanFlagRejectsUnknownLiteral verifies unrecognized literals fail parsing.
func TestBooleanFlagRejectsUnknownLiteral(testingInstance *testing.T) {
	flagSet, _ := newBooleanFlagSet(false)
	if parseError := flagSet.Parse([]string{"--" + testBooleanFlagName + "=maybe"}); parseError == nil {
		testingInstance.Fatal("expected an error for an unknown literal")
	}
}

// TestBooleanFlagBareUsesTrue verifies a bare flag means true.
func TestBooleanFlagBareUsesTrue(testingInstance *testing.T) {
	flagSet, target := newBooleanFlagSet(false)
	if parseError := flagSet.Parse([]string{"--" + testBooleanFlagName}); parseError != nil {
		testingInstance.Fatalf("parse failed: %v", parseError)
	}
	if !*target {
		testingInstance.Fatal("expected bare flag to set true")
	}
}

// TestNormalizeBooleanFlagArguments verifies separated literals collapse into assignments.
func TestNormalizeBooleanFlagArguments(testingInstance *testing.T) {
	command := &cobra.Command{Use: "test"}
	target := new(bool)
	registerBooleanFlag(command.Flags(), target, testBooleanFlagName, false, "usage")

	normalized := normalizeBooleanFlagArguments(command, []string{"--" + testBooleanFlagName, "yes", "path"})
	expected := []string{"--" + testBooleanFlagName + "=yes", "path"}
	if !reflect.DeepEqual(normalized, expected) {
		testingInstance.Fatalf("unexpected normalization: got %v want %v", normalized, expected)
	}

	untouched := normalizeBooleanFlagArguments(command, []string{"--" + testBooleanFlagName, "path"})
	expectedUntouched := []string{"--" + testBooleanFlagName, "path"}
	if !reflect.DeepEqual(untouched, expectedUntouched) {
		testingInstance.Fatalf("unexpected normalization: got %v want %v", untouched, expectedUntouched)
	}
}
