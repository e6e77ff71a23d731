/*
Package scheduling provides task execution components for concurrent applications.

Components:
  - threadpool: dispatcher-driven worker pool with growth-only resizing
  - scheduler: cron and interval-based scheduling into a pool
*/
package scheduling
