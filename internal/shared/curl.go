// Utilities for parsing cURL commands copied from the browser's network inspector.
//
// The backend authenticates with a Django session cookie plus a CSRF token. The
// simplest way for a user to hand those to a terminal client is to "Copy as cURL"
// a logged-in request and save it to a file.
package shared

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// AuthHeaders represents parsed headers and cookies from a cURL command.
type AuthHeaders struct {
	Headers map[string]string
	Cookie  string
}

// ParseCurlFile reads a .sh file containing a cURL command and extracts headers.
func ParseCurlFile(filepath string) (*AuthHeaders, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(content)
}

// ParseCurlCommand parses a cURL command string and extracts headers.
func ParseCurlCommand(data []byte) (*AuthHeaders, error) {
	curlCmd := string(data)
	curlCmd = strings.ReplaceAll(curlCmd, "\\\n", " ")
	curlCmd = strings.ReplaceAll(curlCmd, "\\", "")

	headers := make(map[string]string)
	var cookie string

	headerRegex := regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)
	matches := headerRegex.FindAllStringSubmatch(curlCmd, -1)

	for _, match := range matches {
		var headerLine string
		if match[1] != "" {
			headerLine = match[1]
		} else {
			headerLine = match[2]
		}

		parts := strings.SplitN(headerLine, ":", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			if strings.EqualFold(key, "cookie") {
				cookie = value
			} else {
				headers[key] = value
			}
		}
	}

	cookieRegex := regexp.MustCompile(`-b\s+'([^']+)'|-b\s+"([^"]+)"|--cookie\s+'([^']+)'|--cookie\s+"([^"]+)"`)
	if match := cookieRegex.FindStringSubmatch(curlCmd); match != nil {
		for _, group := range match[1:] {
			if group != "" {
				cookie = group
				break
			}
		}
	}

	if len(headers) == 0 && cookie == "" {
		return nil, fmt.Errorf("no headers found in curl command")
	}

	return &AuthHeaders{Headers: headers, Cookie: cookie}, nil
}

// CSRFToken returns the anti-forgery token discovered in the parsed request,
// checking the X-CSRFToken header first and falling back to the csrftoken
// cookie. Returns an empty string when neither is present.
func (a *AuthHeaders) CSRFToken() string {
	for key, value := range a.Headers {
		if strings.EqualFold(key, "x-csrftoken") {
			return value
		}
	}

	for _, pair := range strings.Split(a.Cookie, ";") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) == 2 && parts[0] == "csrftoken" {
			return parts[1]
		}
	}

	return ""
}
