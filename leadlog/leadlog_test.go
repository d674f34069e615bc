package leadlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendWritesOneLinePerRecord(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, w.Append("leads", map[string]string{"id": "AAAA1111"}))
	require.NoError(t, w.Append("leads", map[string]string{"id": "BBBB2222"}))

	data, err := os.ReadFile(w.FileName("leads"))
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":\"AAAA1111\"}\n{\"id\":\"BBBB2222\"}\n", string(data))
}

func TestDailyFileName(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)
	w.now = func() time.Time { return time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC) }

	require.NoError(t, w.Append("leads", map[string]string{"id": "AAAA1111"}))
	assert.FileExists(t, w.FileName("leads"))
	assert.Contains(t, w.FileName("leads"), "leads-2024-03-09.log")

	// a new day rotates to a new file
	w.now = func() time.Time { return time.Date(2024, 3, 10, 0, 1, 0, 0, time.UTC) }
	require.NoError(t, w.Append("leads", map[string]string{"id": "BBBB2222"}))
	assert.Contains(t, w.FileName("leads"), "leads-2024-03-10.log")
}

func TestCategoriesAreSeparateFiles(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, w.Append("leads", map[string]string{"id": "AAAA1111"}))
	require.NoError(t, w.Append("bots", map[string]string{"ip": "1.2.3.4"}))

	assert.FileExists(t, w.FileName("leads"))
	assert.FileExists(t, w.FileName("bots"))
	assert.NotEqual(t, w.FileName("leads"), w.FileName("bots"))
}

func TestAppendFailsWhenDirectoryGone(t *testing.T) {
	dir := t.TempDir() + "/logs"
	w, err := NewWriter(dir)
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(dir))
	assert.Error(t, w.Append("leads", map[string]string{"id": "AAAA1111"}))
}

func TestConcurrentAppendsStayIntact(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = w.Append("leads", map[string]string{"id": fmt.Sprintf("ID%06d", n)})
		}(i)
	}
	wg.Wait()

	f, err := os.Open(w.FileName("leads"))
	require.NoError(t, err)
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var record map[string]string
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &record), "corrupt line: %q", scanner.Text())
		count++
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, 50, count)
}
