package note

import "strings"

type Tag string

const (
	TagWork     Tag = "Work"
	TagPersonal Tag = "Personal"
	TagMeeting  Tag = "Meeting"
	TagShopping Tag = "Shopping"
	TagTodo     Tag = "Todo"
)

// TagAll is the filter value meaning "no tag filter".
const TagAll = "all"

// Tags lists the enumeration in display order.
var Tags = []Tag{TagWork, TagPersonal, TagMeeting, TagShopping, TagTodo}

func (t Tag) Valid() bool {
	for _, v := range Tags {
		if t == v {
			return true
		}
	}
	return false
}

// ParseFilter resolves a route segment into a tag filter. An empty
// segment means "all". The second result is false for unknown tags.
func ParseFilter(segment string) (string, bool) {
	segment = strings.TrimSpace(segment)
	if segment == "" || segment == TagAll {
		return TagAll, true
	}
	if Tag(segment).Valid() {
		return segment, true
	}
	return "", false
}

func tagNames() string {
	names := make([]string, 0, len(Tags))
	for _, t := range Tags {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}
