package pg

import (
	"testing"

	"github.com/itchan-dev/attachstore/shared/config"
	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.Pg{Host: "db", Port: 5433, User: "u", Password: "p", Dbname: "attachstore"})

	assert.Equal(t, "host=db port=5433 user=u password=p dbname=attachstore sslmode=disable", dsn)
}

func TestDefaultConnectionConfig(t *testing.T) {
	c := DefaultConnectionConfig()

	assert.Greater(t, c.MaxOpenConns, 0)
	assert.LessOrEqual(t, c.MaxIdleConns, c.MaxOpenConns)
}
