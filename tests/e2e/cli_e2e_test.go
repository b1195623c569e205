package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"xctasks/tests/testutil"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	root := testutil.RepoRoot(t)
	cmd := exec.Command("go", append([]string{"run", "./cmd/xctasks"}, args...)...)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on", "JENKINS_URL=")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	return string(out)
}

func TestValidateCommandE2E(t *testing.T) {
	out := runCLI(t, "validate", "--project", "fixtures/demo/xctasks.yaml", "--log-level", "error")
	require.Contains(t, out, "validated: Demo (scheme Demo)")
	require.Contains(t, out, "tasks: 11")
}

func TestPathsCommandE2E(t *testing.T) {
	out := runCLI(t, "paths", "--project", "fixtures/demo/xctasks.yaml", "--log-level", "error")
	root := testutil.RepoRoot(t)
	want := filepath.Join(root, "fixtures", "demo", "build", "Demo", "Build", "Products", "Release-iphoneos", "Demo-1.2.0.ipa")
	require.True(t, strings.Contains(out, want), out)
}
