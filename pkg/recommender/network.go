package recommender

import (
	"strings"

	"github.com/opscart/cloud-cost-optimizer/pkg/config"
	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

func networkRules(cfg config.RulesConfig) []Rule {
	spaFrontend := func(in *Input) bool {
		frontend := strings.ToLower(in.Profile.TechStack.Frontend)
		for _, fw := range cfg.SPAFrameworks {
			if strings.Contains(frontend, fw) {
				return true
			}
		}
		return false
	}

	return []Rule{
		{
			ID:          "network.cdn",
			Domain:      models.DomainNetwork,
			Service:     models.ServiceDataTransfer,
			Title:       "Serve Static Assets Through a CDN",
			Description: "Cache the frontend bundle and media at the edge with CloudFront",
			Risk:        models.RiskLow,
			Complexity:  models.ComplexityMedium,
			Impact:      "Edge delivery is cheaper than origin transfer and faster for users",
			Steps: []string{
				"Create a CloudFront distribution",
				"Configure the S3 bucket and load balancer as origins",
				"Update DNS records to point at the distribution",
				"Enable compression and long cache lifetimes for static assets",
			},
			When: func(in *Input) bool {
				return !in.Profile.CurrentInfra.CDN && (spaFrontend(in) || anyFeature(in, cfg.MediaKeywords))
			},
			Savings: share(models.ServiceDataTransfer, cfg.CDN),
			Match: weightIf(func(in *Input) bool {
				return in.Pattern.StorageAccess == models.StorageHot
			}, cfg.DirectMatch, cfg.PartialMatch),
		},
		{
			ID:          "network.vpc_endpoints",
			Domain:      models.DomainNetwork,
			Service:     models.ServiceDataTransfer,
			Title:       "Use VPC Endpoints for AWS Service Traffic",
			Description: "Reach S3 and other AWS services without going through the NAT gateway",
			Risk:        models.RiskLow,
			Complexity:  models.ComplexityLow,
			Impact:      "Removes NAT processing charges for internal traffic",
			Steps: []string{
				"Create gateway endpoints for S3 and DynamoDB",
				"Update route tables of the private subnets",
				"Test connectivity from the private subnets",
				"Monitor the NAT gateway data processed metric",
			},
			When:    always,
			Savings: share(models.ServiceDataTransfer, cfg.VPCEndpoints),
			Match:   weight(cfg.GenericMatch),
		},
		{
			ID:          "network.load_balancer_removal",
			Domain:      models.DomainNetwork,
			Service:     models.ServiceLoadBalancer,
			Title:       "Remove Load Balancer from Single-Instance Deployment",
			Description: "A load balancer in front of one instance adds cost without adding redundancy",
			Risk:        models.RiskHigh,
			Complexity:  models.ComplexityLow,
			Impact:      "Saves the load balancer charge but loses health checks and zero-downtime deploys",
			Steps: []string{
				"Confirm the deployment will stay on a single instance",
				"Move TLS termination to the instance or an edge proxy",
				"Point DNS at an Elastic IP on the instance",
				"Delete the load balancer after traffic has drained",
			},
			When: func(in *Input) bool {
				infra := in.Profile.CurrentInfra
				return infra.LoadBalancer && infra.InstanceCount <= 1
			},
			Savings: share(models.ServiceLoadBalancer, cfg.LoadBalancerRemoval),
			Match:   weight(cfg.PartialMatch),
		},
	}
}
