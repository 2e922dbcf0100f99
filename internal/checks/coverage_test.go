package checks

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/releasegate/internal/executor"
)

const (
	xcodebuildCmd = "xcodebuild -workspace SDK.xcworkspace -scheme SDK-Unit-Tests " +
		"-enableCodeCoverage YES clean build test CODE_SIGN_IDENTITY= CODE_SIGNING_REQUIRED=NO"
	xccovCmd = "xcrun xccov view --report --files-for-target SDK.framework --json " +
		"/build/DerivedData/Test.xcresult"
)

// sampleReport builds an xccov JSON report with the given file coverages.
func sampleReport(files map[string]float64) string {
	report := `[{"files":[`
	first := true
	for path, cov := range files {
		if !first {
			report += ","
		}
		first = false
		report += fmt.Sprintf(`{"path":%q,"lineCoverage":%v}`, path, cov)
	}
	return report + `]}]`
}

// paddedFiles returns n well-covered filler files so reports clear the
// minimum file count.
func paddedFiles(n int) map[string]float64 {
	files := make(map[string]float64, n)
	for i := 0; i < n; i++ {
		files[fmt.Sprintf("/work/Sources/Filler%d.swift", i)] = 0.95
	}
	return files
}

func stubCoverageRun(fake *executor.FakeRunner, report string) {
	fake.Stub(xcodebuildCmd, executor.Result{
		Stdout: "Test session results at /build/DerivedData/Test.xcresult\n** TEST SUCCEEDED **\n",
	})
	fake.Stub(xccovCmd, executor.Result{Stdout: report})
}

func TestCoverage_AllFilesAboveThresholdPasses(t *testing.T) {
	fake := executor.NewFakeRunner()
	stubCoverageRun(fake, sampleReport(paddedFiles(8)))

	res, err := NewCoverageCheck(testEnv(fake)).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Passed)
}

func TestCoverage_FileBelowThresholdFailsGate(t *testing.T) {
	files := paddedFiles(7)
	files["/work/Sources/Classes/Weak.swift"] = 0.5

	fake := executor.NewFakeRunner()
	stubCoverageRun(fake, sampleReport(files))

	res, err := NewCoverageCheck(testEnv(fake)).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Passed)
	require.Len(t, res.Details, 2)
	assert.Contains(t, res.Details[1], "Sources/Classes/Weak.swift")
	assert.Contains(t, res.Details[1], "0.5")
}

func TestCoverage_ExactThresholdPasses(t *testing.T) {
	files := paddedFiles(7)
	files["/work/Sources/Edge.swift"] = 0.8

	fake := executor.NewFakeRunner()
	stubCoverageRun(fake, sampleReport(files))

	res, err := NewCoverageCheck(testEnv(fake)).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Passed, "coverage exactly at the threshold must pass")
}

func TestCoverage_JustBelowThresholdFails(t *testing.T) {
	files := paddedFiles(7)
	files["/work/Sources/Edge.swift"] = 0.79999

	fake := executor.NewFakeRunner()
	stubCoverageRun(fake, sampleReport(files))

	res, err := NewCoverageCheck(testEnv(fake)).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Passed)
}

func TestCoverage_UntestableFileIsExempt(t *testing.T) {
	files := paddedFiles(7)
	files["/work/Sources/Classes/CentralManagerWrapper.swift"] = 0.1

	fake := executor.NewFakeRunner()
	stubCoverageRun(fake, sampleReport(files))

	env := testEnv(fake)
	env.Config.UntestableFiles = []string{"Sources/Classes/CentralManagerWrapper.swift"}

	res, err := NewCoverageCheck(env).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Passed, "allow-listed file must be exempt regardless of coverage")
}

func TestCoverage_FailedBuildAborts(t *testing.T) {
	fake := executor.NewFakeRunner()
	fake.Stub(xcodebuildCmd, executor.Result{ExitCode: 65, Stderr: "** TEST FAILED **\n"})

	_, err := NewCoverageCheck(testEnv(fake)).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInfrastructure))
}

func TestCoverage_MissingBundlePathAborts(t *testing.T) {
	fake := executor.NewFakeRunner()
	fake.Stub(xcodebuildCmd, executor.Result{Stdout: "** TEST SUCCEEDED **\n"})

	_, err := NewCoverageCheck(testEnv(fake)).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInfrastructure))
}

func TestParseCoverageReport_RejectsMultipleProducts(t *testing.T) {
	report := `[{"files":[]},{"files":[]}]`
	_, err := parseCoverageReport(report, "Sources/")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInfrastructure))
}

func TestParseCoverageReport_RejectsTooFewFiles(t *testing.T) {
	report := sampleReport(map[string]float64{"/work/Sources/A.swift": 0.9})
	_, err := parseCoverageReport(report, "Sources/")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInfrastructure))
}

func TestParseCoverageReport_RejectsForeignPath(t *testing.T) {
	files := paddedFiles(6)
	files["/work/Vendor/Dep.swift"] = 0.9
	_, err := parseCoverageReport(sampleReport(files), "Sources/")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInfrastructure))
}

func TestParseCoverageReport_TrimsPathsToPrefix(t *testing.T) {
	files, err := parseCoverageReport(sampleReport(paddedFiles(6)), "Sources/")
	require.NoError(t, err)
	require.Len(t, files, 6)
	for _, f := range files {
		assert.Contains(t, f.Path, "Sources/Filler")
		assert.NotContains(t, f.Path, "/work/")
	}
}

func TestParseCoverageReport_MalformedJSONAborts(t *testing.T) {
	_, err := parseCoverageReport("not json", "Sources/")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInfrastructure))
}
