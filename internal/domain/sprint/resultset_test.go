package sprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultSet_Empty(t *testing.T) {
	rs := ResultSet{}
	assert.True(t, rs.IsEmpty())
	assert.Equal(t, "", rs.SprintName())
	assert.Equal(t, 0, rs.Distinct(FieldStatus))
}

func TestResultSet_Distinct(t *testing.T) {
	rs := ResultSet{
		{Code: "T-1", AssignedUser: "Ana", ResponsibleUser: "Bruno", StatusDescription: "Em Execução", StatusCode: 8, SprintName: "Sprint 42"},
		{Code: "T-2", AssignedUser: "Ana", ResponsibleUser: "Carla", StatusDescription: "Concluído", StatusCode: 7, SprintName: "Sprint 42"},
		{Code: "T-3", AssignedUser: "Davi", ResponsibleUser: "Bruno", StatusDescription: "Concluído", StatusCode: 7, SprintName: "Sprint 42"},
	}

	assert.Equal(t, 3, rs.Len())
	assert.Equal(t, "Sprint 42", rs.SprintName())
	assert.Equal(t, 2, rs.Distinct(FieldAssignedUser))
	assert.Equal(t, 2, rs.Distinct(FieldResponsibleUser))
	assert.Equal(t, 2, rs.Distinct(FieldStatus))
}

func TestField_IsValid(t *testing.T) {
	assert.True(t, FieldStatus.IsValid())
	assert.True(t, FieldResponsibleUser.IsValid())
	assert.False(t, Field("sprint").IsValid())
}
