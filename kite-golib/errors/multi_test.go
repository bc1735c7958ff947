package errors

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendNil(t *testing.T) {
	err := New("error")
	errs := Append(nil, err)
	require.Equal(t, 1, errs.Len())
	require.Equal(t, err, errs.Slice()[0])

	errs = Append(errs, nil)
	require.Equal(t, 1, errs.Len())

	require.Nil(t, Append(nil, nil))
}

func TestAppendMultiMulti(t *testing.T) {
	err0 := New("error0")
	err1 := New("error1")
	err2 := New("error2")
	err3 := New("error3")

	var errs01 Errors
	errs01 = Append(errs01, err0)
	errs01 = Append(errs01, err1)
	var errs23 Errors
	errs23 = Append(errs23, err2)
	errs23 = Append(errs23, err3)

	errs := Append(errs01, errs23).Slice()
	require.Len(t, errs, 4)
	require.Equal(t, []error{err0, err1, err2, err3}, errs)

	// the inputs are left untouched
	require.Equal(t, 2, errs01.Len())
	require.Equal(t, "error0; error1", errs01.Error())
}

func TestCombine(t *testing.T) {
	e := New("e")
	f := New("f")

	require.NoError(t, Combine(nil, nil))
	require.Equal(t, e, Combine(e, nil))
	require.Equal(t, f, Combine(nil, f))
	require.Equal(t, "e; f", Combine(e, f).Error())
}

func TestDefer(t *testing.T) {
	err := New("outer")
	Defer(&err, func() error { return New("close") })
	require.Equal(t, "outer; close", err.Error())
}
