package utils

import (
	"math/rand"

	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

// ID 的字母表里不包含槽位键分隔符，保证编码出的槽位键总能无歧义地解码
var idLetters = []rune("abcdefghijklmnopqrstuvwxyz")
var idDigits = "0123456789"

func GenerateID(letterLength int, digitLength int) string {
	id := make([]rune, letterLength+digitLength)
	for i := range id {
		if i < letterLength {
			id[i] = idLetters[rand.Intn(len(idLetters))]
		} else {
			id[i] = rune(idDigits[rand.Intn(len(idDigits))])
		}
	}
	return string(id)
}

func GenerateStaffID() string {
	return GenerateID(4, 4)
}

func GenerateRandomStaff() *domain.Staff {
	employmentType := domain.EmploymentFullTime
	weekendRate := 0.0
	if rand.Intn(2) == 0 {
		employmentType = domain.EmploymentPartTime
		weekendRate = float64(rand.Intn(10) + 25)
	}

	return &domain.Staff{
		ID:             GenerateStaffID(),
		Name:           GenerateRandomChineseName(),
		HourlyRate:     float64(rand.Intn(15) + 18),
		WeekendRate:    weekendRate,
		EmploymentType: employmentType,
		IsActive:       true,
	}
}
