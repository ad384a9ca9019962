package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/itsatony/go-strmap"
)

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// readText returns the --input value, or stdin without its trailing line break for "-"
func readText(input string, stdin io.Reader) (string, error) {
	if input != InputSourceStdin {
		return input, nil
	}
	data, err := readInput(input, stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// writeOutput writes content to a file or stdout
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == FlagDefaultOutput {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, FilePermissions)
}

// loadData decodes the JSON object given inline, in a file, or on stdin ("-")
func loadData(jsonStr, filePath string, stdin io.Reader) (map[string]any, error) {
	var jsonData []byte

	switch {
	case filePath != "":
		data, err := readInput(filePath, stdin)
		if err != nil {
			return nil, err
		}
		jsonData = data
	case jsonStr != "":
		jsonData = []byte(jsonStr)
	default:
		return make(map[string]any), nil
	}

	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.UseNumber()

	var result map[string]any
	if err := dec.Decode(&result); err != nil {
		return nil, err
	}
	return result, nil
}

// buildRecord converts decoded JSON values to the declared field types.
// Keys without a field are ignored; null and missing keys stay absent.
func buildRecord(raw map[string]any, fields []strmap.Field[strmap.Record]) (strmap.Record, error) {
	record := make(strmap.Record, len(fields))
	for _, field := range fields {
		value, ok := raw[field.Name]
		if !ok || value == nil {
			continue
		}

		var text string
		switch v := value.(type) {
		case string:
			text = v
		case json.Number:
			text = v.String()
		case bool:
			text = strconv.FormatBool(v)
		default:
			return nil, fmt.Errorf(FmtFieldError, ErrMsgInvalidFieldValue, field.Name)
		}

		typed, ok := strmap.ParseText(field.Type, text, "")
		if !ok {
			return nil, fmt.Errorf(FmtFieldValueError, ErrMsgInvalidFieldValue, field.Name, text, field.Type)
		}
		record[field.Name] = typed
	}
	return record, nil
}
