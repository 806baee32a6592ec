package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
)

func TestNameToPinyin(t *testing.T) {
	require.Equal(t, "zhangwei", NameToPinyin("张伟"))
	require.Equal(t, "lina", NameToPinyin("李娜"))
	// 非中文字符保持原样
	require.Equal(t, "abc", NameToPinyin("abc"))
}

func TestMergeStaffOrder(t *testing.T) {
	staffList := []*domain.Staff{
		{ID: "aaaa1111", Name: "张伟", IsActive: true},
		{ID: "bbbb2222", Name: "李娜", IsActive: true},
		{ID: "cccc3333", Name: "陈刚", IsActive: true},
		{ID: "dddd4444", Name: "王芳", IsActive: false},
	}

	t.Run("appends missing staff sorted by pinyin", func(t *testing.T) {
		merged := MergeStaffOrder(nil, staffList)

		// 陈刚 (chengang) < 李娜 (lina) < 张伟 (zhangwei)
		require.Equal(t, []string{"cccc3333", "bbbb2222", "aaaa1111"}, merged)
	})

	t.Run("keeps existing order and appends the rest", func(t *testing.T) {
		merged := MergeStaffOrder([]string{"aaaa1111"}, staffList)

		require.Equal(t, []string{"aaaa1111", "cccc3333", "bbbb2222"}, merged)
	})

	t.Run("drops unknown and archived ids", func(t *testing.T) {
		merged := MergeStaffOrder([]string{"gone0000", "dddd4444", "bbbb2222"}, staffList)

		require.Equal(t, []string{"bbbb2222", "cccc3333", "aaaa1111"}, merged)
	})
}
