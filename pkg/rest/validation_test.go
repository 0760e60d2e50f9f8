package rest_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restkit-io/restkit/pkg/rest"
)

func TestValidationErrorsContainer(t *testing.T) {
	t.Parallel()

	v := rest.NewValidationErrors()
	v.Add("name", "can't be blank")
	v.Add("name", "is too short")
	v.Add("email", "is invalid")
	v.AddToBase("entity is stale")

	assert.Equal(t, []string{"name", "email", "base"}, v.Fields())
	assert.Equal(t, []string{"can't be blank", "is too short"}, v.On("name"))
	assert.Nil(t, v.On("missing"))
	assert.Equal(t, 4, v.Size())
	assert.Equal(t, []string{
		"name can't be blank",
		"name is too short",
		"email is invalid",
		"entity is stale",
	}, v.FullMessages())
}

func TestSaveRejectedWithFieldErrors(t *testing.T) {
	t.Parallel()

	conn := &fakeConn{responses: []*rest.Response{
		respond(http.StatusOK, `{"id":1,"name":""}`, nil),
		respond(http.StatusUnprocessableEntity,
			`{"errors":{"name":["can't be blank"],"email":["is invalid"]}}`, nil),
	}}
	people := siteWithConn(t, conn).Type("person")

	person, err := people.Find(context.Background(), "1", nil)
	require.NoError(t, err)

	err = person.Save(context.Background())
	require.Error(t, err)
	assert.True(t, rest.IsInvalid(err))

	// a rejected entity is still a client error
	assert.True(t, rest.IsClientError(err))
	assert.False(t, rest.IsNotFound(err))

	var invalidErr *rest.InvalidError
	require.True(t, errors.As(err, &invalidErr))
	assert.Equal(t, http.StatusUnprocessableEntity, invalidErr.Status)
	assert.Equal(t, []string{"can't be blank"}, invalidErr.Errors.On("name"))
	assert.Equal(t, []string{
		"name can't be blank",
		"email is invalid",
	}, invalidErr.Errors.FullMessages())
	assert.Contains(t, invalidErr.Error(), "name can't be blank")

	// local edits survive for a corrected resend
	assert.True(t, person.Persisted())
}

func TestCreateRejectedWithMessageList(t *testing.T) {
	t.Parallel()

	conn := &fakeConn{responses: []*rest.Response{
		respond(http.StatusUnprocessableEntity, `{"errors":["Name has already been taken"]}`, nil),
	}}
	people := siteWithConn(t, conn).Type("person")

	person, err := people.Create(context.Background(), map[string]interface{}{"name": "dup"}, nil)
	require.Error(t, err)

	var invalidErr *rest.InvalidError
	require.True(t, errors.As(err, &invalidErr))
	assert.Equal(t, []string{"Name has already been taken"}, invalidErr.Errors.On("base"))
	assert.Equal(t, []string{"Name has already been taken"}, invalidErr.Errors.FullMessages())

	require.NotNil(t, person)
	assert.Equal(t, rest.StateNew, person.State())
}

func TestRejectedWithUnreadableBody(t *testing.T) {
	t.Parallel()

	conn := &fakeConn{responses: []*rest.Response{
		respond(http.StatusUnprocessableEntity, `<html>not json</html>`, nil),
	}}
	people := siteWithConn(t, conn).Type("person")

	_, err := people.Create(context.Background(), map[string]interface{}{"name": "x"}, nil)
	require.Error(t, err)

	var invalidErr *rest.InvalidError
	require.True(t, errors.As(err, &invalidErr))
	assert.Equal(t, 0, invalidErr.Errors.Size())
	assert.Contains(t, invalidErr.Error(), "422")
}
