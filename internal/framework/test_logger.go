package framework

type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestFinished(id TestID, result TestResult, debugOutput CapturedOutput)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                              {}
func (n nullTestLogger) TestError(TestID, error)                         {}
func (n nullTestLogger) TestFinished(TestID, TestResult, CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)                      {}

// MultiTestLogger рассылает события нескольким получателям: консоли,
// метрикам и журналу запуска.
type MultiTestLogger []TestLogger

func (m MultiTestLogger) TestStarted(id TestID) {
	for _, l := range m {
		l.TestStarted(id)
	}
}

func (m MultiTestLogger) TestError(id TestID, err error) {
	for _, l := range m {
		l.TestError(id, err)
	}
}

func (m MultiTestLogger) TestFinished(id TestID, result TestResult, debugOutput CapturedOutput) {
	for _, l := range m {
		l.TestFinished(id, result, debugOutput)
	}
}

func (m MultiTestLogger) TestSkipped(id TestID, reason string) {
	for _, l := range m {
		l.TestSkipped(id, reason)
	}
}
