package departments

import "hrhub/internal/domain/people"

const ResourceDepartments = "departments"

var departmentFields = []string{"department", "leaderId", "memberIds"}

type Department struct {
	ID         string        `json:"id"`
	Department string        `json:"department"`
	Leader     *people.User  `json:"leader"`
	Members    []people.User `json:"members"`
}

type Input struct {
	Department string   `json:"department"`
	LeaderID   string   `json:"leaderId"`
	MemberIDs  []string `json:"memberIds"`
}

type membersPayload struct {
	MemberIDs []string `json:"memberIds"`
}
