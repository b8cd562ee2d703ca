package commands_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stupeter/strct/internal/commands"
)

// dataFileName defines the sample file used by fit tests.
const dataFileName = "samples.txt"

// floatTolerance bounds acceptable floating point drift in fit assertions.
const floatTolerance = 1e-9

// writeDataFile creates a sample data file and returns its path.
func writeDataFile(testingHandle *testing.T, content string) string {
	testingHandle.Helper()
	dataFilePath := filepath.Join(testingHandle.TempDir(), dataFileName)
	if writeError := os.WriteFile(dataFilePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", dataFilePath, writeError)
	}
	return dataFilePath
}

// TestGetFitDataPerfectLine verifies an exact line yields its slope and
// intercept with zero nonlinearity error.
func TestGetFitDataPerfectLine(testingHandle *testing.T) {
	dataFilePath := writeDataFile(testingHandle, "0,1\n1,3\n2,5\n3,7\n")

	fitResult, fitError := commands.GetFitData(dataFilePath)
	if fitError != nil {
		testingHandle.Fatalf("GetFitData failed: %v", fitError)
	}
	if fitResult.Points != 4 {
		testingHandle.Fatalf("point count is %d", fitResult.Points)
	}
	if math.Abs(fitResult.Slope-2) > floatTolerance {
		testingHandle.Fatalf("slope is %v", fitResult.Slope)
	}
	if math.Abs(fitResult.Intercept-1) > floatTolerance {
		testingHandle.Fatalf("intercept is %v", fitResult.Intercept)
	}
	if math.Abs(fitResult.Sensitivity-2) > floatTolerance {
		testingHandle.Fatalf("sensitivity is %v", fitResult.Sensitivity)
	}
	if fitResult.Nonlinearity > floatTolerance {
		testingHandle.Fatalf("nonlinearity error is %v", fitResult.Nonlinearity)
	}
}

// TestGetFitDataNegativeSlopeSensitivity verifies sensitivity is the slope magnitude.
func TestGetFitDataNegativeSlopeSensitivity(testingHandle *testing.T) {
	dataFilePath := writeDataFile(testingHandle, "0,10\n1,7\n2,4\n")

	fitResult, fitError := commands.GetFitData(dataFilePath)
	if fitError != nil {
		testingHandle.Fatalf("GetFitData failed: %v", fitError)
	}
	if math.Abs(fitResult.Slope+3) > floatTolerance {
		testingHandle.Fatalf("slope is %v", fitResult.Slope)
	}
	if math.Abs(fitResult.Sensitivity-3) > floatTolerance {
		testingHandle.Fatalf("sensitivity is %v", fitResult.Sensitivity)
	}
}

// TestGetFitDataSkipsUnparseableLines verifies malformed lines are skipped
// without aborting the fit.
func TestGetFitDataSkipsUnparseableLines(testingHandle *testing.T) {
	dataFilePath := writeDataFile(testingHandle, "0,1\nnot-a-sample\n1,3\n\n2,5\n")

	fitResult, fitError := commands.GetFitData(dataFilePath)
	if fitError != nil {
		testingHandle.Fatalf("GetFitData failed: %v", fitError)
	}
	if fitResult.Points != 3 {
		testingHandle.Fatalf("point count is %d", fitResult.Points)
	}
}

// TestGetFitDataInsufficientPoints verifies fewer than two samples is an error.
func TestGetFitDataInsufficientPoints(testingHandle *testing.T) {
	dataFilePath := writeDataFile(testingHandle, "1,2\n")

	if _, fitError := commands.GetFitData(dataFilePath); fitError == nil {
		testingHandle.Fatal("expected an error for a single sample")
	}
}

// TestGetFitDataZeroVariance verifies identical x values are rejected.
func TestGetFitDataZeroVariance(testingHandle *testing.T) {
	dataFilePath := writeDataFile(testingHandle, "1,2\n1,5\n1,9\n")

	if _, fitError := commands.GetFitData(dataFilePath); fitError == nil {
		testingHandle.Fatal("expected an error for zero x variance")
	}
}

// TestGetFitDataMissingFile verifies a missing data file is an error.
func TestGetFitDataMissingFile(testingHandle *testing.T) {
	missingPath := filepath.Join(testingHandle.TempDir(), "absent.txt")

	if _, fitError := commands.GetFitData(missingPath); fitError == nil {
		testingHandle.Fatal("expected an error for a missing data file")
	}
}
