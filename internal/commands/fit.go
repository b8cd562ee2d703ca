package commands

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/stupeter/strct/internal/types"
)

const (
	// warningSkipSampleFormat is used when a data line cannot be parsed.
	warningSkipSampleFormat = "Warning: skipping unparseable line %d in %s: %q\n"
	// warningZeroRangeFormat is used when the outputs carry no spread.
	warningZeroRangeFormat = "Warning: y values in %s have zero range; nonlinearity error reported as 0\n"

	// errorOpenDataFileFormat reports a data file that cannot be read.
	errorOpenDataFileFormat = "reading data file %s: %w"
	// errorScanDataFileFormat reports a failure while scanning data lines.
	errorScanDataFileFormat = "scanning data file %s: %w"
	// errorInsufficientPointsFormat reports too few usable samples.
	errorInsufficientPointsFormat = "data file %s holds %d usable points; a fit needs at least %d"
	// errorDegenerateDataFormat reports samples without x variance.
	errorDegenerateDataFormat = "data file %s has no x variance; a linear fit is undefined"

	// sampleFieldSeparator splits a data line into its x and y fields.
	sampleFieldSeparator = ","
	// sampleFieldCount is the number of fields expected per data line.
	sampleFieldCount = 2
	// minimumFitPoints is the smallest sample count a fit accepts.
	minimumFitPoints = 2
)

// GetFitData reads comma-separated x,y samples from dataFilePath and returns
// the closed-form least-squares line through them. Blank lines are skipped and
// unparseable lines produce a stderr warning without aborting the fit.
//
// #nosec G304
func GetFitData(dataFilePath string) (*types.FitResult, error) {
	fileHandle, openError := os.Open(dataFilePath)
	if openError != nil {
		return nil, fmt.Errorf(errorOpenDataFileFormat, dataFilePath, openError)
	}
	defer func() {
		if closeError := fileHandle.Close(); closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", dataFilePath, closeError)
		}
	}()

	var xValues []float64
	var yValues []float64
	lineNumber := 0
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		lineNumber++
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" {
			continue
		}
		xValue, yValue, parseOk := parseSampleLine(trimmedLine)
		if !parseOk {
			fmt.Fprintf(os.Stderr, warningSkipSampleFormat, lineNumber, dataFilePath, trimmedLine)
			continue
		}
		xValues = append(xValues, xValue)
		yValues = append(yValues, yValue)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf(errorScanDataFileFormat, dataFilePath, scanError)
	}

	if len(xValues) < minimumFitPoints {
		return nil, fmt.Errorf(errorInsufficientPointsFormat, dataFilePath, len(xValues), minimumFitPoints)
	}

	slope, intercept, fitError := leastSquaresFit(xValues, yValues)
	if fitError != nil {
		return nil, fmt.Errorf(errorDegenerateDataFormat, dataFilePath)
	}

	return &types.FitResult{
		DataFile:     dataFilePath,
		Points:       len(xValues),
		Slope:        slope,
		Intercept:    intercept,
		Sensitivity:  math.Abs(slope),
		Nonlinearity: nonlinearityError(xValues, yValues, slope, intercept, dataFilePath),
	}, nil
}

// parseSampleLine splits one "x,y" line into its numeric fields.
func parseSampleLine(sampleLine string) (float64, float64, bool) {
	fields := strings.Split(sampleLine, sampleFieldSeparator)
	if len(fields) != sampleFieldCount {
		return 0, 0, false
	}
	xValue, xParseError := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if xParseError != nil {
		return 0, 0, false
	}
	yValue, yParseError := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if yParseError != nil {
		return 0, 0, false
	}
	return xValue, yValue, true
}

// leastSquaresFit computes the closed-form slope and intercept of the line
// minimizing squared vertical error. An error is returned when every x value
// is identical, which leaves the slope undefined.
func leastSquaresFit(xValues, yValues []float64) (float64, float64, error) {
	xMean := mean(xValues)
	yMean := mean(yValues)

	var numerator float64
	var denominator float64
	for sampleIndex := range xValues {
		xDelta := xValues[sampleIndex] - xMean
		numerator += xDelta * (yValues[sampleIndex] - yMean)
		denominator += xDelta * xDelta
	}
	if denominator == 0 {
		return 0, 0, fmt.Errorf("zero x variance")
	}

	slope := numerator / denominator
	intercept := yMean - slope*xMean
	return slope, intercept, nil
}

// nonlinearityError returns the maximum deviation of the samples from the
// fitted line as a percentage of the output range.
func nonlinearityError(xValues, yValues []float64, slope, intercept float64, dataFilePath string) float64 {
	var maxDeviation float64
	yMinimum := yValues[0]
	yMaximum := yValues[0]
	for sampleIndex := range xValues {
		fittedValue := slope*xValues[sampleIndex] + intercept
		deviation := math.Abs(yValues[sampleIndex] - fittedValue)
		if deviation > maxDeviation {
			maxDeviation = deviation
		}
		yMinimum = math.Min(yMinimum, yValues[sampleIndex])
		yMaximum = math.Max(yMaximum, yValues[sampleIndex])
	}

	yRange := yMaximum - yMinimum
	if yRange == 0 {
		fmt.Fprintf(os.Stderr, warningZeroRangeFormat, dataFilePath)
		return 0
	}
	return maxDeviation / yRange * 100
}

// mean returns the arithmetic mean of the provided values.
func mean(values []float64) float64 {
	var total float64
	for _, value := range values {
		total += value
	}
	return total / float64(len(values))
}
