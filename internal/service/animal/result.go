package animal

import "fmt"

// ErrorKind классифицирует неудачную попытку получить картинку.
type ErrorKind int

const (
	UnknownCategory ErrorKind = iota + 1
	NetworkError
	MalformedResponse
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownCategory:
		return "unknown_category"
	case NetworkError:
		return "network_error"
	case MalformedResponse:
		return "malformed_response"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// FetchError — типизированная ошибка получения картинки.
type FetchError struct {
	Kind     ErrorKind
	Category string
	Err      error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Category, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Category, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Result — итог одной попытки: либо ссылка на картинку, либо FetchError.
// Создаётся заново на каждый вызов и нигде не хранится.
type Result struct {
	Category string
	ImageURL string
	Err      *FetchError
}

// OK сообщает, удалось ли получить ссылку.
func (r Result) OK() bool { return r.Err == nil && r.ImageURL != "" }

// Kind возвращает вид ошибки, для успешного результата — 0.
func (r Result) Kind() ErrorKind {
	if r.Err == nil {
		return 0
	}
	return r.Err.Kind
}

// Message возвращает текст ошибки для показа пользователю.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

func success(category, imageURL string) Result {
	return Result{Category: category, ImageURL: imageURL}
}

func failure(category string, kind ErrorKind, err error) Result {
	return Result{Category: category, Err: &FetchError{Kind: kind, Category: category, Err: err}}
}
