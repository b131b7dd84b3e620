/*
Package server implements msgpack IPC for rack queries.

Clients write a stream of msgpack maps to stdin and read one msgpack map per
request from stdout. Requests are processed serially, in arrival order, with
timing info included in responses.

# IPC

A find request names a rack, blanks written as "?":

	{"id": "req_001", "r": "hotel?", "l": 24}

The server responds with the matching words sorted ascending:

	{"id": "req_001", "w": ["eh", "el", ...], "c": 118, "t": 310}

c is the number of words found; w holds at most l of them and at most
server.max_results. Setting "by_len" orders w longest first. Whitespace in r
is ignored; anything other than letters and "?" is a 400.

Dict management enables runtime adjustment of loaded chunks:

	{"id": "dict_001", "action": "get_info"}
	{"id": "dict_002", "action": "set_size", "chunk_count": 5}
	{"id": "dict_003", "action": "get_options"}

Failed requests get a FindError with an HTTP-like code: 400 for malformed
input or a rack over the length limit, 422 for too many blanks, 500 for
anything else.
*/
package server

// FindRequest asks for every word buildable from a rack.
type FindRequest struct {
	ID       string `msgpack:"id"`
	Rack     string `msgpack:"r"`
	Limit    int    `msgpack:"l,omitempty"`
	ByLength bool   `msgpack:"by_len,omitempty"`
}

// FindResponse - find response
type FindResponse struct {
	ID        string   `msgpack:"id"`
	Words     []string `msgpack:"w"`
	Count     int      `msgpack:"c"`
	TimeTaken int64    `msgpack:"t"` // microseconds
}

// DictionaryRequest - dictionary management request
type DictionaryRequest struct {
	ID         string `msgpack:"id"`
	Action     string `msgpack:"action"`                // "get_info", "set_size", "get_options"
	ChunkCount *int   `msgpack:"chunk_count,omitempty"` // for "set_size"
}

// DictionarySizeOption - dictionary size option
type DictionarySizeOption struct {
	ChunkCount int    `msgpack:"chunk_count"`
	KeyCount   int    `msgpack:"key_count"`
	SizeLabel  string `msgpack:"size_label"`
}

// DictionaryResponse - dictionary operation response
type DictionaryResponse struct {
	ID              string                 `msgpack:"id"`
	Status          string                 `msgpack:"status"`
	Error           string                 `msgpack:"error,omitempty"`
	CurrentChunks   int                    `msgpack:"current_chunks,omitempty"`
	AvailableChunks int                    `msgpack:"available_chunks,omitempty"`
	TargetChunks    int                    `msgpack:"target_chunks,omitempty"` // last size set through set_size
	Keys            int                    `msgpack:"keys,omitempty"`
	Words           int                    `msgpack:"words,omitempty"`
	Options         []DictionarySizeOption `msgpack:"options,omitempty"`
}

// FindError holds basic error information for failed requests
type FindError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

// request is the union of every message a client may send.
// Action selects a dictionary operation; without it the message is a find.
type request struct {
	ID         string `msgpack:"id"`
	Rack       string `msgpack:"r"`
	Limit      int    `msgpack:"l"`
	ByLength   bool   `msgpack:"by_len"`
	Action     string `msgpack:"action"`
	ChunkCount *int   `msgpack:"chunk_count"`
}

const (
	CodeBadRequest          = 400
	CodeTooManyWildcards    = 422
	CodeInternalServerError = 500
)
