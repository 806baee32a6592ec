package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sunny-bistro/roster-manager/backend/internal/analytics"
	"github.com/sunny-bistro/roster-manager/backend/internal/config"
	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
	"github.com/sunny-bistro/roster-manager/backend/internal/event"
	"github.com/sunny-bistro/roster-manager/backend/internal/repository"
	"github.com/wneessen/go-mail"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	/**********************************************
	 * 读取配置文件
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 连接数据库
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", slog.String("error", err.Error()))
		return
	}
	defer dbpool.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()
	if err := dbpool.PingContext(pingCtx); err != nil {
		logger.Error("无法连接到数据库", slog.String("error", err.Error()))
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * 创建邮件客户端
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("无法创建邮件客户端", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	// 验证邮件客户端是否连接成功
	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		logger.Error("无法连接到邮件服务器", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 连接 RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	// 创建通道
	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法创建通道", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	// 声明队列
	if err := event.DeclareQueue(ch); err != nil {
		logger.Error("无法声明队列", slog.String("error", err.Error()))
		return
	}

	// 监听 CTRL+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// 消费消息
	msgs, err := ch.Consume(
		event.QueueName, // 队列
		"",              // 消费者标识，设置为空字符串，表示由 RabbitMQ 自动分配
		false,           // 是否自动确认消息
		false,           // 是否独占队列
		false,           // 是否禁止消费者接受自己发送的消息，必须设置为 false，因为 RabbitMQ 不支持这个参数
		false,           // 是否不等待，等待 RabbitMQ 响应
		nil,             // 额外参数
	)
	if err != nil {
		logger.Error("无法消费消息", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 用于关闭 goroutine 的上下文
	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				logger.Info("收到消息", slog.String("message", string(msg.Body)))

				var m event.Message
				if err := json.Unmarshal(msg.Body, &m); err != nil {
					logger.Error("事件消息反序列化失败", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				switch m.Type {
				case event.TypeScheduleSaved:
					// 保存事件只做记录，周报消费者不关心
					_ = msg.Ack(false)
				case event.TypeDigestRequested:
					if err := sendDigest(ctx, logger, cfg, repo, client, &m); err != nil {
						logger.Error("周报发送失败", slog.String("accountID", m.AccountID), slog.String("error", err.Error()))
						_ = msg.Nack(false, true) // 将消息重新入队
						continue
					}
					_ = msg.Ack(false)
				default:
					logger.Error("不支持的事件类型", slog.String("type", m.Type))
					_ = msg.Nack(false, false)
				}
			}
		}
	}()

	// 等待 CTRL+C 信号
	logger.Info("等待消息...（按 CTRL+C 退出）")
	<-sigChan

	// 优雅退出
	slog.Info("正在关闭 digest worker...")
	cancel()
	wg.Wait() // 等待所有 goroutine 完成
	slog.Info("digest worker 已成功关闭")
}

// sendDigest 汇总指定周的工时和成本并发送到门店负责人邮箱
func sendDigest(ctx context.Context, logger *slog.Logger, cfg *config.Config, repo *repository.Repository, client *mail.Client, m *event.Message) error {
	weekStart, err := domain.ParseDateKey(m.WeekStart)
	if err != nil {
		return err
	}

	dateKeys := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		dateKeys = append(dateKeys, weekStart.AddDate(0, 0, i).Format("2006-01-02"))
	}

	account, err := repo.GetAccountByID(m.AccountID)
	if err != nil {
		return err
	}

	slots, err := repo.LoadSchedule(ctx, account.ID)
	if err != nil {
		return err
	}

	staffList, err := repo.GetAllStaff(account.ID)
	if err != nil {
		return err
	}

	rules, err := repo.LoadBusinessRules(account.ID)
	if err != nil {
		return err
	}

	revenue, err := repo.LoadRevenue(account.ID, dateKeys[0], dateKeys[len(dateKeys)-1])
	if err != nil {
		return err
	}

	summary, err := analytics.Summarize(slots, staffList, dateKeys, rules, revenue)
	if err != nil {
		return err
	}

	var body strings.Builder
	fmt.Fprintf(&body, "%s 排班周报（%s 起）\n\n", account.Name, m.WeekStart)
	fmt.Fprintf(&body, "本周总工时：%.2f 小时\n", summary.TotalHours)
	fmt.Fprintf(&body, "本周总人力成本：%.2f %s\n\n", summary.TotalCost, rules.Currency)
	for _, day := range summary.Days {
		if day.LaborPct != nil {
			fmt.Fprintf(&body, "%s：%.2f 小时，成本 %.2f，占营业额 %.1f%%\n", day.DateKey, day.Hours, day.Cost, *day.LaborPct)
		} else {
			fmt.Fprintf(&body, "%s：%.2f 小时，成本 %.2f\n", day.DateKey, day.Hours, day.Cost)
		}
	}
	body.WriteString("\n各员工工时：\n")
	for _, staffWeek := range summary.StaffWeeks {
		fmt.Fprintf(&body, "%s：%.2f 小时（高峰 %.2f / 非高峰 %.2f），成本 %.2f\n",
			staffWeek.StaffName, staffWeek.Hours, staffWeek.PeakHours, staffWeek.OffPeakHours, staffWeek.Cost)
	}

	digest := mail.NewMsg()
	if err := digest.From(cfg.Email.Sender); err != nil {
		return err
	}
	if err := digest.To(account.OwnerEmail); err != nil {
		return err
	}
	digest.Subject(fmt.Sprintf("%s - 排班周报 %s", account.Name, m.WeekStart))
	digest.SetBodyString(mail.TypeTextPlain, body.String())

	if err := client.DialAndSend(digest); err != nil {
		return err
	}

	logger.Info("周报已发送", slog.String("accountID", account.ID), slog.String("to", account.OwnerEmail))
	return nil
}
