package jsonstream

import "strings"

// ReadObject calls fn once per property of the object at the current token.
// fn starts on the PropertyName token and must consume the value, by reading
// it or by calling Skip. Any other current value is skipped.
func (r *Reader) ReadObject(fn func(name string) error) error {
	if r.st.token != StartObject {
		return r.Skip()
	}
	for {
		ok, err := r.Read()
		if err != nil {
			return err
		}
		if !ok || r.st.token != PropertyName {
			return nil
		}
		if err := fn(r.GetString()); err != nil {
			return err
		}
	}
}

// ReadArray calls fn once per element of the array at the current token,
// with the reader on the element's first token. fn must consume the element.
// Any other current value is skipped.
func (r *Reader) ReadArray(fn func() error) error {
	if r.st.token != StartArray {
		return r.Skip()
	}
	for {
		ok, err := r.Read()
		if err != nil {
			return err
		}
		if !ok || r.st.token == EndArray {
			return nil
		}
		if err := fn(); err != nil {
			return err
		}
	}
}

// ReadNextTokenAsString advances and returns the token as text. Booleans
// read as "True" and "False", numbers keep their literal text, and null or
// a container reads as "". Containers are skipped.
func (r *Reader) ReadNextTokenAsString() (string, error) {
	ok, err := r.Read()
	if err != nil || !ok {
		return "", err
	}
	if r.st.token == StartObject || r.st.token == StartArray {
		return "", r.Skip()
	}
	return r.scalarText(), nil
}

func (r *Reader) scalarText() string {
	switch r.st.token {
	case String, PropertyName:
		return r.GetString()
	case Number:
		return r.rawText()
	case True:
		return "True"
	case False:
		return "False"
	}
	return ""
}

// ReadNextTokenAsBoolOrFalse advances and returns the boolean value, or
// false for anything that is not a boolean.
func (r *Reader) ReadNextTokenAsBoolOrFalse() (bool, error) {
	ok, err := r.Read()
	if err != nil || !ok {
		return false, err
	}
	switch r.st.token {
	case True:
		return true, nil
	case StartObject, StartArray:
		return false, r.Skip()
	}
	return false, nil
}

// ReadDelimitedString advances to a string and splits it on commas and
// spaces, dropping empty entries. Other values return a *CastError and
// leave the reader on the offending token.
func (r *Reader) ReadDelimitedString() ([]string, error) {
	ok, err := r.Read()
	if err != nil || !ok {
		return nil, err
	}
	if r.st.token != String {
		return nil, &CastError{Expected: "String", Found: r.st.token}
	}
	return SplitDelimited(r.GetString()), nil
}

// SplitDelimited splits s on commas and spaces and drops empty entries.
func SplitDelimited(s string) []string {
	return strings.FieldsFunc(s, func(c rune) bool { return c == ',' || c == ' ' })
}

// ReadStringArray reads the array at the current token. A value that is not
// an array, or an empty array, returns nil.
func (r *Reader) ReadStringArray() ([]string, error) {
	if r.st.token != StartArray {
		return nil, nil
	}
	items, err := r.readArrayItems()
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return items, nil
}

// ReadNextStringArray advances and reads a string array. Objects are
// skipped and return nil.
func (r *Reader) ReadNextStringArray() ([]string, error) {
	ok, err := r.Read()
	if err != nil || !ok {
		return nil, err
	}
	if r.st.token == StartObject {
		return nil, r.Skip()
	}
	return r.ReadStringArray()
}

// ReadNextStringOrArrayOfStrings advances and reads either a single string,
// which is not split, or an array of scalars. Other values return nil and
// leave the reader on that token.
func (r *Reader) ReadNextStringOrArrayOfStrings() ([]string, error) {
	ok, err := r.Read()
	if err != nil || !ok {
		return nil, err
	}
	switch r.st.token {
	case String:
		return []string{r.GetString()}, nil
	case StartArray:
		return r.readArrayItems()
	}
	return nil, nil
}

// ReadStringArrayFromArrayStart reads the array at the current StartArray
// token and always returns a non-nil slice on success.
func (r *Reader) ReadStringArrayFromArrayStart() ([]string, error) {
	if r.st.token != StartArray {
		return nil, &CastError{Expected: "Array", Found: r.st.token}
	}
	return r.readArrayItems()
}

// readArrayItems reads scalar elements up to the EndArray token. Null
// elements read as "".
func (r *Reader) readArrayItems() ([]string, error) {
	items := []string{}
	for {
		ok, err := r.Read()
		if err != nil {
			return nil, err
		}
		if !ok {
			return items, nil
		}
		switch r.st.token {
		case EndArray:
			return items, nil
		case StartObject, StartArray:
			return nil, &CastError{Expected: "String", Found: r.st.token}
		default:
			items = append(items, r.scalarText())
		}
	}
}
