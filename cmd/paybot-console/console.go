package main

import (
	// Go Internal Packages
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	// Local Packages
	api "paybot-console/api"
	client "paybot-console/client"
	config "paybot-console/config"
	helpers "paybot-console/helpers"
	kafka "paybot-console/kafka"
	metrics "paybot-console/metrics"
	mongodb "paybot-console/repositories/mongodb"
	redisrepo "paybot-console/repositories/redis"
	export "paybot-console/services/export"
	feed "paybot-console/services/feed"
	filters "paybot-console/services/filters"
	poller "paybot-console/services/poller"
	processors "paybot-console/services/processors"
	session "paybot-console/session"

	// External Packages
	"github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/plugin/kprom"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// console holds the connections and components shared by every command.
type console struct {
	conf    config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	session *session.Session
	api     *client.Client
	journal feed.Journal
	redis   *redis.Client
	mongo   *mongo.Client

	closeOnce sync.Once
}

func newConsole(ctx context.Context, conf config.Config, logger *zap.Logger) (*console, error) {
	c := &console{conf: conf, logger: logger, metrics: metrics.New("paybot_console")}

	if conf.UsesRedis() {
		rdb, err := redisrepo.Connect(ctx, conf.Redis.URI, conf.Redis.Password, conf.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("cannot create redis client: %w", err)
		}
		c.redis = rdb
	}

	var store session.Store = session.NewMemoryStore(conf.API.Token)
	if conf.Session.Store == "redis" {
		store = redisrepo.NewSessionStore(c.redis, conf.Session.Key, conf.Session.TTL)
	}
	sess, err := session.New(ctx, store, logger)
	if err != nil {
		c.close()
		return nil, fmt.Errorf("cannot load session: %w", err)
	}
	if sess.Token() == "" && conf.API.Token != "" {
		if err = sess.Login(ctx, conf.API.Token); err != nil {
			c.close()
			return nil, fmt.Errorf("cannot store api token: %w", err)
		}
	}
	c.session = sess

	c.api = client.New(client.Config{
		BaseURL:       conf.API.BaseURL,
		Timeout:       conf.API.Timeout,
		WalletTimeout: conf.API.WalletTimeout,
	}, sess, logger, c.metrics)

	if conf.Mongo.Enabled {
		mc, err := mongodb.Connect(ctx, conf.Mongo.URI, conf.Application, conf.Mongo.Timeout)
		if err != nil {
			c.close()
			return nil, fmt.Errorf("cannot create mongo client: %w", err)
		}
		c.mongo = mc
		c.journal = mongodb.NewJournalRepository(mc, conf.Mongo.Database)
	}
	return c, nil
}

func (c *console) close() {
	c.closeOnce.Do(func() {
		if c.mongo != nil {
			_ = c.mongo.Disconnect(context.Background())
		}
		if c.redis != nil {
			_ = c.redis.Close()
		}
	})
}

func (c *console) run(ctx context.Context, command string) error {
	switch command {
	case loginCmd.FullCommand():
		return c.login(ctx)
	case txListCmd.FullCommand():
		return c.listTransactions(ctx)
	case txCancelCmd.FullCommand():
		return c.cancelTransaction(ctx)
	case txClearCmd.FullCommand():
		return c.clearAll(ctx)
	case txExportCmd.FullCommand():
		return c.export(ctx)
	case txDeletedCmd.FullCommand():
		return c.deleted(ctx)
	case walletsListCmd.FullCommand():
		return c.listWallets(ctx)
	case watchCmd.FullCommand():
		return c.watch(ctx)
	}
	return fmt.Errorf("unknown command %q", command)
}

func (c *console) composer(args *filterArgs) (*filters.Composer, error) {
	composer := filters.NewComposer(c.conf.Location())
	if args == nil {
		return composer, nil
	}
	if err := composer.SetStatus(*args.status); err != nil {
		return nil, err
	}
	if err := composer.SetType(*args.txType); err != nil {
		return nil, err
	}
	if err := composer.SetDateFrom(*args.from); err != nil {
		return nil, err
	}
	if err := composer.SetDateTo(*args.to); err != nil {
		return nil, err
	}
	composer.SetSearch(*args.search)
	return composer, nil
}

func (c *console) controller(args *filterArgs) (*feed.Controller, error) {
	composer, err := c.composer(args)
	if err != nil {
		return nil, err
	}
	return feed.NewController(c.api, composer, c.journal, c.logger, c.metrics), nil
}

func (c *console) wallets(enabled bool) *poller.Poller {
	return poller.New(poller.Config{
		Interval: c.conf.Poller.Interval,
		Enabled:  enabled,
		Location: c.conf.Location(),
	}, c.api, c.logger, c.metrics)
}

func (c *console) login(ctx context.Context) error {
	token, err := c.api.Login(ctx, *loginUsername, *loginPassword)
	if err != nil {
		return err
	}
	if err = c.session.Login(ctx, token); err != nil {
		return err
	}
	c.logger.Info("logged in", zap.String("username", *loginUsername), zap.String("store", c.conf.Session.Store))
	return nil
}

func (c *console) listTransactions(ctx context.Context) error {
	ctrl, err := c.controller(&txList)
	if err != nil {
		return err
	}
	if err = ctrl.Mount(ctx); err != nil {
		return err
	}
	return helpers.PrintStruct(os.Stdout, ctrl.View())
}

func (c *console) cancelTransaction(ctx context.Context) error {
	ctrl, err := c.controller(nil)
	if err != nil {
		return err
	}
	if err = ctrl.Mount(ctx); err != nil {
		return err
	}

	confirmer := helpers.NewTerminalConfirmer(os.Stdin, os.Stderr)
	confirmer.AssumeYes = *txCancelYes
	confirmer.Answer = *txCancelReason
	if *txCancelYes && *txCancelReason == "" {
		confirmer.Answer = feed.DefaultCancelReason
	}
	if err = ctrl.Cancel(ctx, *txCancelID, confirmer); err != nil {
		return err
	}
	return helpers.PrintStruct(os.Stdout, ctrl.View())
}

func (c *console) clearAll(ctx context.Context) error {
	ctrl, err := c.controller(nil)
	if err != nil {
		return err
	}

	confirmer := helpers.NewTerminalConfirmer(os.Stdin, os.Stderr)
	confirmer.AssumeYes = *txClearYes
	confirmer.Answer = *txClearPhrase
	if err = ctrl.ClearAll(ctx, confirmer); err != nil {
		return err
	}
	fmt.Println(ctrl.View().Notice)
	return nil
}

func (c *console) exporter(q export.QuerySource) *export.Exporter {
	return export.NewExporter(c.api, q, export.DirSaver{Dir: c.conf.Export.Dir}, c.journal, c.logger)
}

func (c *console) export(ctx context.Context) error {
	composer, err := c.composer(&txExport)
	if err != nil {
		return err
	}
	path, err := c.exporter(composer).Export(ctx, export.Format(*txExportFormat))
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func (c *console) deleted(ctx context.Context) error {
	if *txDeletedPDF {
		path, err := c.exporter(filters.NewComposer(c.conf.Location())).DeletedReport(ctx, *txDeletedMonth, *txDeletedYear)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	}

	records, err := c.api.ListDeleted(ctx, *txDeletedMonth, *txDeletedYear)
	if err != nil {
		return err
	}
	return helpers.PrintStruct(os.Stdout, records)
}

func (c *console) listWallets(ctx context.Context) error {
	p := c.wallets(false)
	if err := p.Refresh(ctx); err != nil {
		return err
	}
	return helpers.PrintStruct(os.Stdout, p.View())
}

func (c *console) watch(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wallets := c.wallets(c.conf.Poller.Enabled)
	ctrl, err := c.controller(nil)
	if err != nil {
		return err
	}

	c.session.OnInvalidated(func() {
		// runs on the goroutine whose request was rejected, which may be the poller's own loop
		go wallets.Stop()
		c.logger.Warn("credential rejected, wallet polling stopped; run login again")
	})

	wallets.Start(ctx)
	defer wallets.Stop()
	if err = ctrl.Mount(ctx); err != nil {
		c.logger.Error("initial transaction load failed", zap.Error(err))
	}

	var wg sync.WaitGroup
	if c.conf.Kafka.Consume {
		consumer, err := c.consumer(ctrl)
		if err != nil {
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Poll(ctx); err != nil && ctx.Err() == nil {
				c.logger.Error("transaction event consumer stopped", zap.Error(err))
			}
		}()
	}

	server := &http.Server{
		Addr:              c.conf.Server.Addr,
		Handler:           api.New(ctrl, wallets, c.metrics.Registry, c.logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		c.logger.Info("status server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err = <-serveErr:
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		c.logger.Warn("status server shutdown failed", zap.Error(shutdownErr))
	}
	cancel()
	wg.Wait()
	c.logger.Info("watch stopped")
	return err
}

func (c *console) consumer(ctrl *feed.Controller) (*kafka.Consumer, error) {
	var dlq processors.DeadLetterQueue
	if c.redis != nil {
		dlq = redisrepo.NewDeadLetterQueue(c.redis, c.logger, c.conf.Redis.DLQList)
	}
	processor := processors.NewEventProcessor(c.logger, dlq, ctrl)

	kmetrics := kprom.NewMetrics("paybot_console", kprom.Registry(c.metrics.Registry))
	conf := &kafka.ConsumerConfig{
		Brokers:        c.conf.Kafka.Brokers,
		Name:           c.conf.Kafka.ConsumerName,
		Topic:          c.conf.Kafka.Topic,
		RecordsPerPoll: c.conf.Kafka.RecordsPerPoll,
	}
	consumer, err := kafka.NewEventConsumer(conf, c.logger, processor, kmetrics)
	if err != nil {
		return nil, fmt.Errorf("cannot create transaction event consumer: %w", err)
	}
	return consumer, nil
}
