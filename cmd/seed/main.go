package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/sunny-bistro/roster-manager/backend/internal/config"
	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
	"github.com/sunny-bistro/roster-manager/backend/internal/repository"
	"github.com/sunny-bistro/roster-manager/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// 示例账户的角色目录，颜色取自前端的默认调色板
var seedRoles = []struct {
	name  string
	code  string
	color string
}{
	{"厨师", "厨", "#ef4444"},
	{"服务员", "服", "#3b82f6"},
	{"收银", "收", "#22c55e"},
	{"清洁", "清", "#a855f7"},
}

var seedTemplates = []struct {
	name      string
	roleIndex int
	startTime string
	endTime   string
}{
	{"早班", 1, "09:00", "14:00"},
	{"午市帮厨", 0, "11:00", "15:00"},
	{"晚班", 1, "17:00", "22:00"},
	{"收银全天", 2, "10:00", "20:00"},
}

func main() {
	var n int
	var withRevenue bool

	flag.IntVar(&n, "n", 8, "要插入的随机员工数量")
	flag.BoolVar(&withRevenue, "with-revenue", true, "是否插入最近一周的示例营业额")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 创建示例账户
	account := &domain.Account{
		ID:         utils.GenerateID(4, 4),
		Name:       cfg.Seed.AccountName,
		OwnerEmail: cfg.Seed.OwnerEmail,
	}
	if err := repo.CreateAccount(account); err != nil {
		logger.Error("无法创建示例账户", slog.String("error", err.Error()))
		return
	}
	logger.Info("示例账户已创建", slog.String("accountID", account.ID), slog.String("name", account.Name))

	// 插入角色目录
	roles := make([]*domain.Role, 0, len(seedRoles))
	for _, sr := range seedRoles {
		role := &domain.Role{
			ID:    utils.GenerateID(4, 4),
			Name:  sr.name,
			Code:  sr.code,
			Color: sr.color,
		}
		if err := repo.CreateRole(account.ID, role); err != nil {
			logger.Error("无法插入角色", slog.String("name", sr.name), slog.String("error", err.Error()))
			return
		}
		roles = append(roles, role)
	}
	logger.Info("角色目录已插入", slog.Int("count", len(roles)))

	// 插入随机员工
	staffList := make([]*domain.Staff, 0, n)
	for i := 0; i < n; i++ {
		staff := utils.GenerateRandomStaff()
		if err := repo.CreateStaff(account.ID, staff); err != nil {
			logger.Error("无法插入员工", slog.String("error", err.Error()))
			continue
		}
		staffList = append(staffList, staff)
	}
	logger.Info("随机员工已插入", slog.Int("count", len(staffList)))

	// 按拼音生成默认的员工显示顺序
	order := utils.MergeStaffOrder(nil, staffList)
	if err := repo.SaveStaffOrder(account.ID, order); err != nil {
		logger.Error("无法保存员工排序", slog.String("error", err.Error()))
		return
	}

	// 插入班次模板
	for _, st := range seedTemplates {
		role := roles[st.roleIndex]
		template := &domain.ShiftTemplate{
			ID:        utils.GenerateID(4, 4),
			Name:      st.name,
			RoleID:    role.ID,
			RoleCode:  role.Code,
			RoleColor: role.Color,
			StartTime: st.startTime,
			EndTime:   st.endTime,
		}
		if err := repo.SaveTemplate(account.ID, template); err != nil {
			logger.Error("无法插入班次模板", slog.String("name", st.name), slog.String("error", err.Error()))
			return
		}
	}
	logger.Info("班次模板已插入", slog.Int("count", len(seedTemplates)))

	// 写入默认门店规则
	if err := repo.SaveBusinessRules(account.ID, domain.DefaultBusinessRules()); err != nil {
		logger.Error("无法保存门店规则", slog.String("error", err.Error()))
		return
	}

	// 插入最近一周的示例营业额
	if withRevenue {
		today := time.Now()
		for i := 6; i >= 0; i-- {
			day := today.AddDate(0, 0, -i)
			entry := &domain.DailyRevenue{
				DateKey:          day.Format("2006-01-02"),
				ProjectedRevenue: float64(3000 + rand.Intn(5000)),
				OtherRevenue:     float64(rand.Intn(800)),
			}
			if err := repo.SaveRevenueEntry(account.ID, entry); err != nil {
				logger.Error("无法插入营业额记录", slog.String("dateKey", entry.DateKey), slog.String("error", err.Error()))
				return
			}
		}
		logger.Info("示例营业额已插入")
	}

	logger.Info("示例数据填充完成", slog.String("accountID", account.ID))
}
