package fetch

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Response is a parsed HTTP exchange result: the status code plus the
// raw body bytes. Header handling is the minimum the registry needs:
// Content-Length to bound the read and Transfer-Encoding to dechunk.
type Response struct {
	Status int
	Body   []byte

	// framing state used while the read is still accumulating
	complete  bool
	hasLength bool
	chunked   bool
}

const headerSep = "\r\n\r\n"

// headersComplete reports whether the header block has fully arrived.
func headersComplete(raw []byte) bool {
	return bytes.Contains(raw, []byte(headerSep))
}

// parseResponse parses the accumulated bytes into a Response. It returns
// an error only for unrecoverable framing defects (bad status line, bad
// chunk syntax); an incomplete body is reported through the complete
// flag so the caller can keep reading.
func parseResponse(raw []byte) (Response, error) {
	sep := bytes.Index(raw, []byte(headerSep))
	if sep < 0 {
		return Response{}, fmt.Errorf("fetch: connection closed before headers completed")
	}
	head := string(raw[:sep])
	body := raw[sep+len(headerSep):]

	lines := strings.Split(head, "\r\n")
	status, err := parseStatusLine(lines[0])
	if err != nil {
		return Response{}, err
	}

	resp := Response{Status: status}
	length := -1
	for _, line := range lines[1:] {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "content-length":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return Response{}, fmt.Errorf("fetch: invalid Content-Length %q", value)
			}
			length = n
			resp.hasLength = true
		case "transfer-encoding":
			if strings.Contains(strings.ToLower(value), "chunked") {
				resp.chunked = true
			}
		}
	}

	switch {
	case resp.chunked:
		decoded, done, err := dechunk(body)
		if err != nil {
			return Response{}, err
		}
		resp.Body = decoded
		resp.complete = done
	case resp.hasLength:
		if len(body) >= length {
			resp.Body = body[:length]
			resp.complete = true
		} else {
			resp.Body = body
		}
	default:
		// No declared length: the body runs to connection close.
		resp.Body = body
	}
	return resp, nil
}

// verifyComplete is consulted once the peer closes the connection. A
// body with no declared length is complete by definition at close; a
// declared length or chunked stream that never finished is truncated.
func (r *Response) verifyComplete() error {
	if r.complete {
		return nil
	}
	if r.hasLength || r.chunked {
		return fmt.Errorf("fetch: truncated response body")
	}
	r.complete = true
	return nil
}

func parseStatusLine(line string) (int, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 || !strings.HasPrefix(fields[0], "HTTP/") {
		return 0, fmt.Errorf("fetch: malformed status line %q", line)
	}
	status, err := strconv.Atoi(fields[1])
	if err != nil || status < 100 || status > 599 {
		return 0, fmt.Errorf("fetch: malformed status code in %q", line)
	}
	return status, nil
}

// dechunk decodes a chunked transfer encoding body. done reports whether
// the terminal zero-length chunk has arrived; until then the decoded
// prefix is returned and the caller keeps reading.
func dechunk(body []byte) (decoded []byte, done bool, err error) {
	rest := body
	for {
		nl := bytes.Index(rest, []byte("\r\n"))
		if nl < 0 {
			return decoded, false, nil // size line not complete yet
		}
		sizeField := rest[:nl]
		// Chunk extensions after ';' are ignored.
		if i := bytes.IndexByte(sizeField, ';'); i >= 0 {
			sizeField = sizeField[:i]
		}
		size, err := strconv.ParseInt(string(bytes.TrimSpace(sizeField)), 16, 32)
		if err != nil || size < 0 {
			return nil, false, fmt.Errorf("fetch: invalid chunk size %q", sizeField)
		}
		if size == 0 {
			return decoded, true, nil
		}
		chunk := rest[nl+2:]
		if int64(len(chunk)) < size+2 {
			return decoded, false, nil // chunk data not complete yet
		}
		decoded = append(decoded, chunk[:size]...)
		rest = chunk[size+2:] // past the trailing CRLF
	}
}
