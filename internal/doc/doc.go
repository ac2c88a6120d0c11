// Package doc describes the architecture using the C4 model, use the `mdl`
// tool to generate the corresponding diagrams.
package doc

import (
	. "goa.design/model/dsl"
)

var _ = Design("Task Planner", "Multi-user task planning service", func() {
	Person("User", "Plans and tracks day-to-day tasks.", func() {
		Uses("Task Planner", "Uses", "HTTPS", Synchronous)
		Tag("person")
	})

	SoftwareSystem("Task Planner", "Sectioned task listings with search.", func() {
		URL("https://github.com/sanLimbu/taskplanner-api")

		Container("REST Server", "Serves the task planning API.", "Go", func() {
			Uses("PostgreSQL", "Reads from and writes to", "pgx", Synchronous)
			Uses("Redis", "Stores sessions in", "TCP", Synchronous)
			Uses("Memcached", "Caches task records in", "TCP", Synchronous)
			Uses("Elasticsearch", "Searches tasks in", "HTTPS", Synchronous)
			Uses("Kafka", "Publishes task events to", "TCP", Asynchronous)
			Tag("service")
		})

		Container("Elasticsearch Indexer", "Keeps the search index in sync with task events.", "Go", func() {
			Uses("Kafka", "Consumes task events from", "TCP", Asynchronous)
			Uses("Elasticsearch", "Indexes and deletes task documents in", "HTTPS", Synchronous)
			Tag("service")
		})

		Container("PostgreSQL", "Stores users and tasks.", "PostgreSQL 14", func() {
			Tag("database")
		})

		Container("Redis", "Stores opaque session tokens.", "Redis 6", func() {
			Tag("database")
		})

		Container("Memcached", "Read-through cache for task records.", "Memcached", func() {
			Tag("database")
		})

		Container("Elasticsearch", "Full text search over tasks.", "Elasticsearch 7", func() {
			Tag("database")
		})

		Container("Kafka", "Task event log.", "Kafka", func() {
			Tag("broker")
		})
	})

	Views(func() {
		SystemContextView("Task Planner", "Context", "System context diagram.", func() {
			AddAll()
			AutoLayout(RankLeftRight)
		})

		ContainerView("Task Planner", "Containers", "Container diagram.", func() {
			AddAll()
			AutoLayout(RankLeftRight)
		})

		Styles(func() {
			ElementStyle("person", func() {
				Shape(ShapePerson)
			})
			ElementStyle("database", func() {
				Shape(ShapeCylinder)
			})
		})
	})
})
