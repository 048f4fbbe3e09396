package coa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandlivre-dev/grandlivre/internal/model"
)

func TestNewService(t *testing.T) {
	chart := DefaultChart("co1")
	svc := NewService(chart)

	assert.Len(t, svc.All(), len(chart))
}

func TestGetExists(t *testing.T) {
	svc := NewService(DefaultChart("co1"))

	acct, ok := svc.Get("411000")
	assert.True(t, ok)
	assert.Equal(t, "Clients", acct.Name)

	_, ok = svc.Get("999999")
	assert.False(t, ok)

	assert.True(t, svc.Exists("521000"))
	assert.False(t, svc.Exists("999999"))
}

func TestGetByCode(t *testing.T) {
	svc := NewService([]model.Account{
		{ID: "a1", CompanyID: "co1", Code: "701000", Name: "Ventes", Type: model.AccountTypeIncome},
	})

	acct, ok := svc.GetByCode("701000")
	require.True(t, ok)
	assert.Equal(t, "a1", acct.ID)

	_, ok = svc.GetByCode("401000")
	assert.False(t, ok)
}

func TestClassifyID(t *testing.T) {
	svc := NewService(DefaultChart("co1"))

	c, ok := svc.ClassifyID("443000")
	require.True(t, ok)
	assert.Equal(t, GroupVATCollected, c.Group)

	c, ok = svc.ClassifyID("nope")
	assert.False(t, ok)
	assert.Equal(t, ClassUnclassified, c.Class)
}

func TestByClass(t *testing.T) {
	svc := NewService(DefaultChart("co1"))

	treasury := svc.ByClass(ClassTreasury)
	require.NotEmpty(t, treasury)
	for _, a := range treasury {
		assert.Equal(t, ClassTreasury, Classify(a.Code).Class, "account %s", a.Code)
	}
}

func TestDefaultChart_AllClassified(t *testing.T) {
	// The shipped chart must never contain a code the classifier rejects.
	for _, a := range DefaultChart("co1") {
		c := Classify(a.Code)
		assert.NotEqual(t, ClassUnclassified, c.Class, "account %s %s", a.Code, a.Name)
	}
}

func TestChildren(t *testing.T) {
	svc := NewService([]model.Account{
		{ID: "p", Code: "411000", Name: "Clients"},
		{ID: "c1", Code: "411100", Name: "Clients locaux", ParentID: "p"},
		{ID: "c2", Code: "411200", Name: "Clients export", ParentID: "p"},
	})

	kids := svc.Children("p")
	assert.Len(t, kids, 2)
}
