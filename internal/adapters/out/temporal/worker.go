package temporal

import (
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
)

// NewWorker registers the fulfillment workflow and activities on taskQueue.
func NewWorker(c client.Client, taskQueue string, activities *Activities) worker.Worker {
	w := worker.New(c, taskQueue, worker.Options{})
	w.RegisterWorkflow(OrderFulfillmentWorkflow)
	w.RegisterActivity(activities)
	return w
}

// Dial connects to the cluster.
func Dial(hostPort, namespace string) (client.Client, error) {
	return client.Dial(client.Options{
		HostPort:  hostPort,
		Namespace: namespace,
	})
}
