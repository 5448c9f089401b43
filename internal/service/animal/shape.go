package animal

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ShapeKind — вид «конверта», в котором провайдер возвращает ссылку на картинку.
type ShapeKind int

const (
	// FlatKey: {"<key>": "https://..."}
	FlatKey ShapeKind = iota + 1
	// FirstOfArrayKey: [{"<key>": "https://..."}, ...], берётся только первый элемент.
	FirstOfArrayKey
)

func (k ShapeKind) String() string {
	switch k {
	case FlatKey:
		return "flat"
	case FirstOfArrayKey:
		return "first-of-array"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// ResponseShape описывает, где в JSON-ответе провайдера лежит ссылка на картинку.
type ResponseShape struct {
	Kind ShapeKind
	Key  string
}

// Flat возвращает форму ответа вида {"key": "url"}.
func Flat(key string) ResponseShape { return ResponseShape{Kind: FlatKey, Key: key} }

// FirstOfArray возвращает форму ответа вида [{"key": "url"}, ...].
func FirstOfArray(key string) ResponseShape { return ResponseShape{Kind: FirstOfArrayKey, Key: key} }

func (s ResponseShape) String() string { return s.Kind.String() + "(" + s.Key + ")" }

func (s ResponseShape) validate() error {
	if s.Key == "" {
		return errors.New("response shape: empty key")
	}
	switch s.Kind {
	case FlatKey, FirstOfArrayKey:
		return nil
	default:
		return fmt.Errorf("response shape: unknown kind %d", int(s.Kind))
	}
}

// Extract достаёт ссылку на картинку из тела ответа.
// Любое несоответствие форме — ошибка; паники на чужих данных нет.
func (s ResponseShape) Extract(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", errors.New("response is not valid JSON")
	}
	root := gjson.ParseBytes(body)

	var obj gjson.Result
	switch s.Kind {
	case FlatKey:
		if !root.IsObject() {
			return "", fmt.Errorf("expected JSON object, got %s", describe(root))
		}
		obj = root
	case FirstOfArrayKey:
		if !root.IsArray() {
			return "", fmt.Errorf("expected JSON array, got %s", describe(root))
		}
		items := root.Array()
		if len(items) == 0 {
			return "", errors.New("empty JSON array")
		}
		if !items[0].IsObject() {
			return "", fmt.Errorf("expected first element to be an object, got %s", describe(items[0]))
		}
		obj = items[0]
	default:
		return "", fmt.Errorf("unsupported response shape %s", s)
	}

	v := lastField(obj, s.Key)
	if !v.Exists() {
		return "", fmt.Errorf("field %q is missing", s.Key)
	}
	if v.Type != gjson.String {
		return "", fmt.Errorf("field %q is %s, want string", s.Key, describe(v))
	}
	if v.Str == "" {
		return "", fmt.Errorf("field %q is empty", s.Key)
	}
	return v.Str, nil
}

func describe(r gjson.Result) string {
	switch {
	case r.IsObject():
		return "object"
	case r.IsArray():
		return "array"
	case r.Type == gjson.Null:
		return "null"
	case r.Type == gjson.String:
		return "string"
	case r.Type == gjson.Number:
		return "number"
	case r.Type == gjson.True, r.Type == gjson.False:
		return "bool"
	default:
		return r.Type.String()
	}
}

// lastField ищет поле по точному имени; при повторяющихся ключах побеждает последний.
func lastField(obj gjson.Result, key string) gjson.Result {
	var found gjson.Result
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found = v
		}
		return true
	})
	return found
}
