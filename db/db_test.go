package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	t.Run(`ошибка подключения в режиме отладки возвращается без паники`, func(t *testing.T) {
		DB = nil
		var err error
		require.NotPanics(t, func() {
			err = Connect("127.0.0.1", "1", "ats", "ats", "secret", true, true)
		})
		require.Error(t, err)
		require.Nil(t, DB)
	})
}
