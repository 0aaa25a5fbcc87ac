package github

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/textproto"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"
)

// placeholderStatus is what curl's %{http_code} prints when no response was
// read on the final connection, e.g. a reused keep-alive connection.
const placeholderStatus = "000"

// curlTransport runs API calls through the curl binary. The request body is
// staged in a scratch file passed with --data @file, response headers are
// captured with --dump-header, and the status code is appended to stdout with
// --write-out.
type curlTransport struct {
	curlPath string
	tempDir  string
}

// NewCurlTransport returns a Transport that shells out to curlPath and keeps
// its scratch files under tempDir.
func NewCurlTransport(curlPath, tempDir string) Transport {
	if curlPath == "" {
		curlPath = "curl"
	}
	return &curlTransport{curlPath: curlPath, tempDir: tempDir}
}

func (t *curlTransport) RoundTrip(ctx context.Context, req *apiRequest) (*apiResponse, error) {
	args := []string{"--silent", "--show-error", "--location", req.URL,
		"--user-agent", DefaultUserAgent,
		"--write-out", "\n%{http_code}",
	}

	keys := make([]string, 0, len(req.Header))
	for key := range req.Header {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		for _, v := range req.Header[key] {
			args = append(args, "--header", key+": "+v)
		}
	}

	if req.Body != nil {
		dataFile, err := os.CreateTemp(t.tempDir, "github_api_post")
		if err != nil {
			return nil, fmt.Errorf("create request body file: %w", err)
		}
		defer func() {
			_ = dataFile.Close()
			_ = os.Remove(dataFile.Name())
		}()

		if _, err := dataFile.Write(req.Body); err != nil {
			return nil, fmt.Errorf("write request body file: %w", err)
		}
		if err := dataFile.Close(); err != nil {
			return nil, fmt.Errorf("close request body file: %w", err)
		}

		args = append(args, "--data", "@"+dataFile.Name(), "--header", "Content-Type: application/json")
	}
	if req.Method != "" && req.Method != http.MethodGet {
		args = append(args, "--request", req.Method)
	}

	headerFile, err := os.CreateTemp(t.tempDir, "github_api_headers")
	if err != nil {
		return nil, fmt.Errorf("create header file: %w", err)
	}
	defer func() {
		_ = headerFile.Close()
		_ = os.Remove(headerFile.Name())
	}()
	if err := headerFile.Close(); err != nil {
		return nil, fmt.Errorf("close header file: %w", err)
	}
	args = append(args, "--dump-header", headerFile.Name())

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.curlPath, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, fmt.Errorf("run curl: %w", runErr)
		}
	}

	body, code := splitStatusMarker(stdout.String())

	rawHeaders, err := os.ReadFile(headerFile.Name())
	if err != nil {
		return nil, fmt.Errorf("read header file: %w", err)
	}

	resp := &apiResponse{
		StatusCode: parseStatusCode(code),
		Header:     parseHeaderDump(rawHeaders),
		Body:       []byte(body),
	}
	if runErr != nil {
		resp.TransportErr = fmt.Errorf("curl failed: %w: %s", runErr, strings.TrimSpace(stderr.String()))
	}

	return resp, nil
}

// splitStatusMarker separates the trailing "\n<code>" written by
// --write-out from the response body. When the last line is the placeholder
// "000" it is dropped once and the line before it is used instead.
func splitStatusMarker(output string) (body, code string) {
	body, code = rpartition(output, "\n")
	if code == placeholderStatus {
		body, code = rpartition(body, "\n")
	}
	return body, code
}

// rpartition splits s around the last sep. When sep does not occur the whole
// string is returned as the tail.
func rpartition(s, sep string) (head, tail string) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return "", s
	}
	return s[:i], s[i+len(sep):]
}

func parseStatusCode(code string) int {
	n, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil {
		return 0
	}
	return n
}

// parseHeaderDump parses the output of --dump-header. With --location the
// dump holds one block per hop; the last block wins.
func parseHeaderDump(raw []byte) http.Header {
	var last []byte
	for _, block := range bytes.Split(bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n")), []byte("\n\n")) {
		if bytes.HasPrefix(bytes.TrimSpace(block), []byte("HTTP/")) {
			last = block
		}
	}
	if last == nil {
		return http.Header{}
	}

	reader := textproto.NewReader(bufio.NewReader(bytes.NewReader(append(bytes.TrimSpace(last), '\n', '\n'))))
	// Skip the status line.
	if _, err := reader.ReadLine(); err != nil {
		return http.Header{}
	}
	mime, err := reader.ReadMIMEHeader()
	if err != nil && len(mime) == 0 {
		return http.Header{}
	}
	return http.Header(mime)
}
