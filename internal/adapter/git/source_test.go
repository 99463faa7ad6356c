package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prbot/prreview/internal/domain"
)

const combinedDiff = `diff --git a/cmd/main.go b/cmd/main.go
index 1111111..2222222 100644
--- a/cmd/main.go
+++ b/cmd/main.go
@@ -1,3 +1,4 @@
 package main
+
 func main() {
 }
diff --git a/removed.txt b/removed.txt
deleted file mode 100644
index 3333333..0000000
--- a/removed.txt
+++ /dev/null
@@ -1,2 +0,0 @@
-first
-second
diff --git a/docs/old.md b/docs/new.md
similarity index 90%
rename from docs/old.md
rename to docs/new.md
index 4444444..5555555 100644
--- a/docs/old.md
+++ b/docs/new.md
@@ -1 +1 @@
-# Old
+# New
`

func TestSplitPatch(t *testing.T) {
	files, err := splitPatch(combinedDiff)
	require.NoError(t, err)
	require.Len(t, files, 3)

	modified := files[0]
	assert.Equal(t, "cmd/main.go", modified.Path)
	assert.Equal(t, domain.FileStatusModified, modified.Status)
	assert.Contains(t, modified.Patch, "@@ -1,3 +1,4 @@")
	assert.NotContains(t, modified.Patch, "diff --git")
	assert.NotContains(t, modified.Patch, "+++")

	deleted := files[1]
	assert.Equal(t, "removed.txt", deleted.Path)
	assert.Equal(t, domain.FileStatusDeleted, deleted.Status)
	assert.Contains(t, deleted.Patch, "-first")

	renamed := files[2]
	assert.Equal(t, "docs/new.md", renamed.Path)
	assert.Equal(t, "docs/old.md", renamed.OldPath)
	assert.Equal(t, domain.FileStatusRenamed, renamed.Status)
}

func TestSplitPatchNewFile(t *testing.T) {
	raw := `diff --git a/hello.txt b/hello.txt
new file mode 100644
index 0000000..6666666
--- /dev/null
+++ b/hello.txt
@@ -0,0 +1 @@
+hello
`
	files, err := splitPatch(raw)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "hello.txt", files[0].Path)
	assert.Equal(t, domain.FileStatusAdded, files[0].Status)
	assert.Contains(t, files[0].Patch, "+hello")
}

func TestSplitPatchBinaryFileHasNoPatch(t *testing.T) {
	raw := `diff --git a/logo.png b/logo.png
new file mode 100644
index 0000000..7777777
Binary files /dev/null and b/logo.png differ
`
	files, err := splitPatch(raw)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Empty(t, files[0].Patch)
}

func TestSplitPatchEmpty(t *testing.T) {
	files, err := splitPatch("")
	require.NoError(t, err)
	assert.Empty(t, files)
}
