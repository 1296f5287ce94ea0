// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/staybook/internal/platform/database/schema"
)

func TestUserAccount_ColumnList(t *testing.T) {
	assert.Equal(t, "users.account", schema.UserAccount.Table)
	assert.Equal(t,
		"id, email, passwordhash, firstname, lastname, createdat, updatedat",
		schema.UserAccount.ColumnList(),
	)
}
