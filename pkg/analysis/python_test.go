package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/fowatch/pkg/report"
)

func TestPytest_GroupsFailures(t *testing.T) {
	t.Parallel()

	r := analyze(t, KindPytest,
		"============================= test session starts ==============================",
		"collected 3 items",
		"",
		"tests/test_a.py .F.                                                      [100%]",
		"",
		"=================================== FAILURES ===================================",
		"___________________________________ test_bar ___________________________________",
		"",
		"    def test_bar():",
		">       assert 1 == 2",
		"E       assert 1 == 2",
		"",
		"tests/test_a.py:5: AssertionError",
		"=========================== short test summary info ============================",
		"FAILED tests/test_a.py::test_bar - assert 1 == 2",
		"FAILED tests/test_a.py::TestC::test_gone - KeyError",
		"========================= 2 failed, 1 passed in 0.03s ==========================",
	)
	assertLines(t, []string{
		"0 TestResult(false) FAILED tests/test_a.py::test_bar - assert 1 == 2",
		"0 TestResult(false) FAILED tests/test_a.py::TestC::test_gone - KeyError",
		"0 Title(sum) ========================= 2 failed, 1 passed in 0.03s ==========================",
		"1 Title(test) ___________________________________ test_bar ___________________________________",
		"1 Normal ",
		"1 Normal     def test_bar():",
		"1 Normal >       assert 1 == 2",
		"1 Normal E       assert 1 == 2",
		"1 Normal ",
		"1 Location tests/test_a.py:5: AssertionError",
		"2 Title(test) FAIL TestC.test_gone",
		"2 Normal no output",
	}, r)

	locs := r.Locations()
	require.Len(t, locs, 1)
	assert.Equal(t, report.Location{Path: "tests/test_a.py", Line: 5}, locs[0].Location)
}

func TestPytest_TitlesSetupErrors(t *testing.T) {
	t.Parallel()

	r := analyze(t, KindPytest,
		"==================================== ERRORS ====================================",
		"_________________________ ERROR at setup of test_db __________________________",
		"fixture 'db' not found",
		"=========================== short test summary info ============================",
		"ERROR tests/test_b.py::test_db",
		"=============================== 1 error in 0.01s ===============================",
	)
	assert.Equal(t, 1, r.Stats.TestFails)
	assert.Equal(t, []string{"test_db"}, r.FailureKeys)
}

func TestPytestKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "test_bar", pytestKey("tests/test_a.py::test_bar"))
	assert.Equal(t, "TestC.test_x[1]", pytestKey("tests/test_a.py::TestC::test_x[1]"))
	assert.Equal(t, "test_y", pytestKey("test_y"))
}

func TestUnittest_GroupsFailures(t *testing.T) {
	t.Parallel()

	r := analyze(t, KindUnittest,
		"test_bar (tests.test_a.TestA.test_bar) ... FAIL",
		"test_foo (tests.test_a.TestA.test_foo) ... ok",
		"",
		"======================================================================",
		"FAIL: test_bar (tests.test_a.TestA.test_bar)",
		"----------------------------------------------------------------------",
		"Traceback (most recent call last):",
		`  File "/app/tests/test_a.py", line 8, in test_bar`,
		"    self.assertEqual(1, 2)",
		"AssertionError: 1 != 2",
		"",
		"----------------------------------------------------------------------",
		"Ran 2 tests in 0.001s",
		"",
		"FAILED (failures=1)",
	)
	assertLines(t, []string{
		"0 TestResult(false) test_bar (tests.test_a.TestA.test_bar) ... FAIL",
		"0 TestResult(true) test_foo (tests.test_a.TestA.test_foo) ... ok",
		"0 Title(sum) FAILED (failures=1)",
		"1 Title(test) FAIL: test_bar (tests.test_a.TestA.test_bar)",
		"1 Normal Traceback (most recent call last):",
		`1 Location   File "/app/tests/test_a.py", line 8, in test_bar`,
		"1 Normal     self.assertEqual(1, 2)",
		"1 Normal AssertionError: 1 != 2",
		"1 Normal ",
	}, r)
	assert.Equal(t, []string{"tests.test_a.TestA.test_bar"}, r.FailureKeys)
}

func TestUnittestKey_AcceptsOldAndNewLayouts(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "tests.TestA.test_x", unittestKey("test_x", "tests.TestA.test_x"))
	assert.Equal(t, "tests.TestA.test_x", unittestKey("test_x", "tests.TestA"))
}

func TestRuff_ReadsConciseAndFullFormats(t *testing.T) {
	t.Parallel()

	r := analyze(t, KindRuff,
		"src/a.py:1:8: F401 [*] `os` imported but unused",
		"E501 Line too long (99 > 88)",
		" --> src/b.py:3:89",
		"  |",
		"3 | x = 'long'",
		"  |",
		"",
		"Found 2 errors.",
		"[*] 1 fixable with the `--fix` option.",
	)
	assertLines(t, []string{
		"0 Title(sum) Found 2 errors.",
		"1 Title(error) error[F401]: [*] `os` imported but unused",
		"1 Location src/a.py:1:8",
		"2 Title(error) error[E501]: Line too long (99 > 88)",
		"2 Location  --> src/b.py:3:89",
		"2 Normal   |",
		"2 Normal 3 | x = 'long'",
		"2 Normal   |",
		"2 Normal ",
	}, r)
	assert.Equal(t, "F401", r.ItemDiagType(1))
	assert.Equal(t, "E501", r.ItemDiagType(2))
}
