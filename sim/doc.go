// Package sim provides the discrete-event cluster engine that experiments drive.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - workload.go: Workload lifecycle (created → queued → executing → success) and ExecutionRecord
//   - event.go: Event types that drive the simulation (VM creation, submission, completion)
//   - simulator.go: The event loop and the broker that binds workloads to VMs
//
// # Architecture
//
// A Datacenter owns Hosts and one PlacementPolicy. Each Host owns its own
// HostScheduler and each VM owns its own VMScheduler; strategy instances are
// stateful and are never shared between hosts or VMs.
//
// Strategy selection by name lives in sim/strategy, topology tables in
// sim/topology, run orchestration and analysis in sim/experiment and CSV
// persistence in sim/report.
//
// # Key Interfaces
//
//   - PlacementPolicy: choose the host a VM is placed on
//   - HostScheduler: arbitrate a host's PEs among its VMs
//   - VMScheduler: arbitrate a VM's PEs among its workloads
//   - UtilizationModel: fraction of a requested resource a workload uses over time
package sim
