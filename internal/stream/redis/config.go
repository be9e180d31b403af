package redis

const (
	DefaultRequestStream = "arena-requests"
	DefaultResultStream  = "arena-reports"
	DefaultGroup         = "arena-group"
	DefaultResultMaxLen  = 1000
)

type RedisStreamConfig struct {
	RedisAddr     string
	RedisPassword string
	Stream        string
	Group         string
	ConsumerName  string
	ResultStream  string
	ResultMaxLen  int64
}

func NewRedisStreamConfig(redisAddr string, redisPassword string, consumerName string) *RedisStreamConfig {
	return &RedisStreamConfig{
		RedisAddr:     redisAddr,
		RedisPassword: redisPassword,
		Stream:        DefaultRequestStream,
		Group:         DefaultGroup,
		ConsumerName:  consumerName,
		ResultStream:  DefaultResultStream,
		ResultMaxLen:  DefaultResultMaxLen,
	}
}
