/*
Package distributed provides submission gating shared across application
instances, using Redis fixed windows.

Each window is a single Redis counter manipulated by a Lua script, so
admissions are atomic even when many instances race on the same window.

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})

	lim, err := distributed.NewFixedWindow(distributed.Config{
		Redis:  client,
		Key:    "jobs:submit",
		Limit:  100,
		Window: time.Second,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer lim.Close()

	throttled := threadpool.NewThrottled(pool, lim)

The limiter fails closed by default: if Redis is unreachable, events are
denied. Set Config.FailOpen to admit instead.
*/
package distributed
