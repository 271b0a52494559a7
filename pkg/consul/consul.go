package consul

import (
	"fmt"
	"strconv"
	"time"

	"sos-service/config"

	consulapi "github.com/hashicorp/consul/api"
	"go.uber.org/zap"
)

type ConsulConn struct {
	logger    *zap.SugaredLogger
	cfg       *config.Config
	client    *consulapi.Client
	serviceID string
}

func NewConsulConn(logger *zap.SugaredLogger, cfg *config.Config) *ConsulConn {
	return &ConsulConn{
		logger:    logger,
		cfg:       cfg,
		serviceID: fmt.Sprintf("%s-%s-%s", cfg.ServiceName, cfg.ServiceHost, cfg.Port),
	}
}

// Connect registers the service with an HTTP health check on /health.
// It returns nil when consul is disabled.
func (c *ConsulConn) Connect() *consulapi.Client {

	if !c.cfg.ConsulEnabled {
		return nil
	}

	consulCfg := consulapi.DefaultConfig()
	consulCfg.Address = c.cfg.ConsulAddress

	client, err := consulapi.NewClient(consulCfg)
	if err != nil {
		c.logger.Fatalf("Failed to create consul client: %v", err)
	}

	port, err := strconv.Atoi(c.cfg.Port)
	if err != nil {
		c.logger.Fatalf("Invalid PORT %q: %v", c.cfg.Port, err)
	}

	registration := &consulapi.AgentServiceRegistration{
		ID:      c.serviceID,
		Name:    c.cfg.ServiceName,
		Address: c.cfg.ServiceHost,
		Port:    port,
		Tags:    []string{"sos", "http"},
		Check: &consulapi.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/health", c.cfg.ServiceHost, port),
			Interval:                       "10s",
			Timeout:                        "5s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}

	if err := client.Agent().ServiceRegister(registration); err != nil {
		c.logger.Fatalf("Failed to register service with consul: %v", err)
	}

	c.client = client
	c.logger.Infof("Registered %s with consul at %s", c.serviceID, c.cfg.ConsulAddress)
	return client
}

func (c *ConsulConn) Deregister() {
	if c.client == nil {
		return
	}
	if err := c.client.Agent().ServiceDeregister(c.serviceID); err != nil {
		c.logger.Warnf("Failed to deregister %s: %v", c.serviceID, err)
		return
	}
	c.logger.Infof("Deregistered %s from consul", c.serviceID)
}

// WaitPassing blocks until name has a passing instance or timeout elapses.
func WaitPassing(cli *consulapi.Client, name string, timeout time.Duration) error {
	if cli == nil {
		return nil
	}
	dl := time.Now().Add(timeout)
	for time.Now().Before(dl) {
		entries, _, err := cli.Health().Service(name, "", true, nil)
		if err == nil && len(entries) > 0 {
			return nil
		}
		time.Sleep(2 * time.Second)
	}
	return fmt.Errorf("%s not ready in consul", name)
}
