package recommender

import (
	"math"
	"strings"

	"github.com/opscart/cloud-cost-optimizer/pkg/config"
	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

func databaseRules(cfg config.RulesConfig) []Rule {
	readHeavy := func(in *Input) bool {
		return hasDatabase(in) && in.Pattern.DatabaseLoad == models.DatabaseReadHeavy
	}
	writeHeavy := func(in *Input) bool {
		return hasDatabase(in) && in.Pattern.DatabaseLoad == models.DatabaseWriteHeavy
	}

	return []Rule{
		{
			ID:          "database.read_replicas",
			Domain:      models.DomainDatabase,
			Service:     models.ServiceRDS,
			Title:       "Add Read Replicas for Read Traffic",
			Description: "Offload read queries to a replica instead of scaling up the primary",
			Risk:        models.RiskLow,
			Complexity:  models.ComplexityMedium,
			Impact:      "Keeps the primary on a smaller class while reads scale out",
			Steps: []string{
				"Create one or two read replicas in the same availability zone",
				"Route read-only queries to the replica endpoint",
				"Split read and write connections in the application",
				"Monitor replication lag",
			},
			When:    readHeavy,
			Savings: share(models.ServiceRDS, cfg.ReadReplicas),
			Match:   weight(cfg.DirectMatch),
		},
		{
			ID:          "database.query_caching",
			Domain:      models.DomainDatabase,
			Service:     models.ServiceRDS,
			Title:       "Cache Frequent Database Reads",
			Description: "Put an in-memory cache in front of the hottest read queries",
			Risk:        models.RiskMedium,
			Complexity:  models.ComplexityMedium,
			Impact:      "Fewer database round trips and a smaller instance class",
			Steps: []string{
				"Identify the most frequent read queries from slow query logs",
				"Provision a small ElastiCache Redis node",
				"Add cache-aside reads with explicit TTLs",
				"Invalidate cached entries on writes to the same keys",
			},
			When: func(in *Input) bool {
				return readHeavy(in) && strings.TrimSpace(in.Profile.TechStack.Cache) == ""
			},
			Savings: share(models.ServiceRDS, cfg.QueryCaching),
			Match:   weight(cfg.DirectMatch),
		},
		{
			ID:          "database.write_batching",
			Domain:      models.DomainDatabase,
			Service:     models.ServiceRDS,
			Title:       "Batch Database Writes",
			Description: "Group small writes into batches to cut IOPS and transaction overhead",
			Risk:        models.RiskMedium,
			Complexity:  models.ComplexityMedium,
			Impact:      "Lower IOPS demand lets the database stay on its current class",
			Steps: []string{
				"Identify high-frequency single-row writes",
				"Buffer writes in a queue and flush them in batches",
				"Switch event tables to append-only inserts",
				"Monitor write latency and queue depth",
			},
			When:    writeHeavy,
			Savings: share(models.ServiceRDS, cfg.WriteBatching),
			Match:   weight(cfg.DirectMatch),
		},
		{
			ID:          "database.connection_pooling",
			Domain:      models.DomainDatabase,
			Service:     models.ServiceRDS,
			Title:       "Enable Database Connection Pooling",
			Description: "Reuse database connections through a pooler to lower connection overhead",
			Risk:        models.RiskLow,
			Complexity:  models.ComplexityLow,
			Impact:      "Handles more concurrent users on the same database class",
			Steps: []string{
				"Analyze current connection counts and patterns",
				"Set up RDS Proxy or an application-side pool such as PgBouncer",
				"Size max connections for the instance class",
				"Test with production-like load",
			},
			When:    hasDatabase,
			Savings: share(models.ServiceRDS, cfg.ConnectionPooling),
			Match: weightIf(func(in *Input) bool {
				return in.Pattern.DatabaseLoad == models.DatabaseWriteHeavy
			}, cfg.PartialMatch, cfg.GenericMatch),
		},
		{
			ID:          "database.storage_autoscaling",
			Domain:      models.DomainDatabase,
			Service:     models.ServiceRDS,
			Title:       "Enable RDS Storage Autoscaling",
			Description: "Provision storage for today's data and let RDS grow it on demand",
			Risk:        models.RiskLow,
			Complexity:  models.ComplexityLow,
			Impact:      "Stops paying for unused pre-provisioned storage",
			Steps: []string{
				"Enable storage autoscaling in the RDS settings",
				"Set a maximum storage threshold",
				"Configure the scaling trigger at 90% full",
				"Monitor storage growth monthly",
			},
			When: hasDatabase,
			Savings: func(in *Input) float64 {
				return math.Min(cfg.StorageAutoscaling, in.Costs.Cost(models.ServiceRDS))
			},
			Match: weight(cfg.GenericMatch),
		},
	}
}
