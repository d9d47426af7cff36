package config

// Redis backs distributed rate limiting and response caching.  When it is
// unreachable at startup the server keeps running: the rate limiter falls
// back to an in-process limiter and caching is switched off.

import (
    "context"
    "crypto/tls"
    "time"

    "github.com/redis/go-redis/v9"
    "github.com/sirupsen/logrus"
)

// RedisOptions reads REDIS_ADDR or REDIS_HOST/REDIS_PORT, REDIS_PASSWORD,
// REDIS_DB and REDIS_TLS.
func RedisOptions() *redis.Options {
    addr := envStr("REDIS_ADDR", "")
    if host, port := envStr("REDIS_HOST", ""), envStr("REDIS_PORT", ""); host != "" && port != "" {
        addr = host + ":" + port
    }
    if addr == "" {
        addr = "localhost:6379"
    }
    var tlsConf *tls.Config
    if envBool("REDIS_TLS", false) {
        tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
    }
    return &redis.Options{
        Addr:      addr,
        Password:  envStr("REDIS_PASSWORD", ""),
        DB:        envInt("REDIS_DB", 0),
        TLSConfig: tlsConf,
    }
}

// NewRedisClient connects and pings with a short timeout.  It returns nil
// when REDIS_ENABLED=false or the server cannot be reached.
func NewRedisClient(log logrus.FieldLogger) *redis.Client {
    if !envBool("REDIS_ENABLED", true) {
        return nil
    }
    opts := RedisOptions()
    client := redis.NewClient(opts)
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        log.WithError(err).WithField("addr", opts.Addr).Warn("redis unavailable; caching disabled, rate limiting in-process")
        _ = client.Close()
        return nil
    }
    return client
}
