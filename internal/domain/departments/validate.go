package departments

import (
	"slices"
	"strings"

	"hrhub/internal/forms"
)

func (in Input) Validate() error {
	v := forms.NewValidator()
	v.Required("department", in.Department)
	v.Required("leaderId", in.LeaderID)
	return v.Err()
}

func (in Input) normalized() Input {
	in.Department = strings.TrimSpace(in.Department)
	in.LeaderID = strings.TrimSpace(in.LeaderID)
	in.MemberIDs = uniqueIDs(in.MemberIDs)
	return in
}

func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
