// Package testutil extends the component lifecycle with test-only hooks so
// fakes such as kvtest.Server can be started, reset and snapshotted from a
// test with automatic cleanup:
//
//	func TestSomething(t *testing.T) {
//	    srv := kvtest.NewServer(kvtest.Options{APIKey: "k"})
//	    testutil.T(t).Setup(srv)
//	    ...
//	}
package testutil
