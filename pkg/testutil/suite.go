package testutil

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// DatasetSuite provides a context and a scratch directory shared by every
// test in a suite
type DatasetSuite struct {
	suite.Suite
	ctx     context.Context
	cancel  context.CancelFunc
	tempDir string
}

// SetupSuite runs before all tests in the suite
func (s *DatasetSuite) SetupSuite() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 5*time.Minute)

	tempDir, err := os.MkdirTemp("", "cinelens-test-*")
	require.NoError(s.T(), err)
	s.tempDir = tempDir
}

// TearDownSuite runs after all tests in the suite
func (s *DatasetSuite) TearDownSuite() {
	s.cancel()
	if s.tempDir != "" {
		_ = os.RemoveAll(s.tempDir)
	}
}

// Context returns the suite context
func (s *DatasetSuite) Context() context.Context {
	return s.ctx
}

// TempDir returns the suite scratch directory
func (s *DatasetSuite) TempDir() string {
	return s.tempDir
}

// CreateTempFile writes content to name in the scratch directory
func (s *DatasetSuite) CreateTempFile(name string, content []byte) string {
	path := filepath.Join(s.tempDir, name)
	require.NoError(s.T(), os.WriteFile(path, content, 0o600))
	return path
}
