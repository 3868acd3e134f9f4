package catalog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// DecodeRecords parses ipa.json. Any malformed record fails the whole decode.
func DecodeRecords(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, &LoadError{Source: "ipa.json", Err: err}
	}
	return records, nil
}

// DecodeBaseURLs parses urls.json, a map of stringified integer keys to url prefixes.
func DecodeBaseURLs(r io.Reader) (BaseURLs, error) {
	var raw map[string]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, &LoadError{Source: "urls.json", Err: err}
	}
	urls := make(BaseURLs, len(raw))
	for k, v := range raw {
		key, err := strconv.Atoi(k)
		if err != nil {
			return nil, &LoadError{Source: "urls.json", Err: fmt.Errorf("invalid base url key %q", k)}
		}
		urls[key] = v
	}
	return urls, nil
}

// EncodeRecords writes records as ipa.json with one compact record per line.
func EncodeRecords(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("[")
	for i, rec := range records {
		data, err := rec.MarshalJSON()
		if err != nil {
			return err
		}
		if i > 0 {
			bw.WriteString(",\n")
		}
		bw.Write(data)
	}
	bw.WriteString("]")
	return bw.Flush()
}

// EncodeBaseURLs writes the base url table as urls.json with ascending keys.
func EncodeBaseURLs(w io.Writer, urls BaseURLs) error {
	keys := make([]int, 0, len(urls))
	for k := range urls {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	bw := bufio.NewWriter(w)
	bw.WriteString("{")
	for i, k := range keys {
		v, err := json.Marshal(urls[k])
		if err != nil {
			return err
		}
		if i > 0 {
			bw.WriteString(",\n")
		}
		fmt.Fprintf(bw, "%q:%s", strconv.Itoa(k), v)
	}
	bw.WriteString("}")
	return bw.Flush()
}
