package diskspace

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAvailableSpaceTinyRequirement(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.bin")

	assert.NoError(t, CheckAvailableSpace(target, 1, 1.1))
}

func TestCheckAvailableSpaceImpossibleRequirement(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.bin")

	// 1 EiB is not going to be free on a test machine.
	err := CheckAvailableSpace(target, 1<<60, 1.0)
	require.Error(t, err)
	assert.True(t, IsInsufficientSpaceError(err))

	var spaceErr *InsufficientSpaceError
	require.True(t, errors.As(err, &spaceErr))
	assert.Equal(t, target, spaceErr.Path)
	assert.Contains(t, spaceErr.Error(), "insufficient disk space")
}

func TestGetAvailableSpace(t *testing.T) {
	free := GetAvailableSpace(filepath.Join(t.TempDir(), "out.bin"))
	assert.Greater(t, free, int64(0))
}

func TestIsInsufficientSpaceErrorOtherError(t *testing.T) {
	assert.False(t, IsInsufficientSpaceError(fmt.Errorf("some other error")))
	assert.False(t, IsInsufficientSpaceError(nil))
}
