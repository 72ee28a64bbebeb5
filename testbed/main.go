package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"golang.org/x/crypto/ssh"
)

// Runs simulation sweeps on remote hosts: install the sim binary, fan the
// sweep's parameter sets out round-robin, and collect the result logs.

type RemoteError struct {
	inner   error
	problem string
}

func (e RemoteError) Error() string {
	if e.inner != nil {
		return e.problem + ": " + e.inner.Error()
	}
	return e.problem
}

type Server struct {
	Location string
	User     string
	PublicIP string
	Port     int
	KeyPath  string
}

type Sweep struct {
	Name string
	Runs []string // argument strings passed to the sim binary, one per run
}

func readServers(path string) []Server {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Println("reading server list:", err)
		os.Exit(1)
	}
	var servers []Server
	if err := json.Unmarshal(data, &servers); err != nil {
		fmt.Println("parsing server list:", err)
		os.Exit(1)
	}
	return servers
}

func readSweep(path string) Sweep {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Println("reading sweep:", err)
		os.Exit(1)
	}
	var sweep Sweep
	if err := json.Unmarshal(data, &sweep); err != nil {
		fmt.Println("parsing sweep:", err)
		os.Exit(1)
	}
	return sweep
}

func connectSSH(s Server) (*ssh.Client, error) {
	key, err := os.ReadFile(s.KeyPath)
	if err != nil {
		return nil, RemoteError{err, "error reading ssh key"}
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, RemoteError{err, "error parsing ssh key"}
	}
	config := &ssh.ClientConfig{
		User:            s.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}
	return ssh.Dial("tcp", fmt.Sprintf("%s:%d", s.PublicIP, s.Port), config)
}

func main() {
	serverListFilePath := flag.String("l", "servers.json", "path to the server list file")
	install := flag.String("install", "", "install the given sim binary on every host")
	sweepFilePath := flag.String("sweep", "", "path to the sweep file")
	runSweep := flag.Bool("run", false, "run the sweep")
	downloadResults := flag.String("dl", "", "download result logs and store them with the given prefix")
	flag.Parse()

	servers := readServers(*serverListFilePath)

	clients := make([]*ssh.Client, len(servers))
	connWg := &sync.WaitGroup{}
	connWg.Add(len(servers))
	for i, s := range servers {
		go func(i int, s Server) {
			defer connWg.Done()
			client, err := connectSSH(s)
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			fmt.Printf("Connected to %v\n", s.Location)
			clients[i] = client
		}(i, s)
	}
	connWg.Wait()

	if *install != "" {
		fn := func(i int, s Server, c *ssh.Client) error {
			if err := killSim(c); err != nil {
				return err
			}
			return uploadFile(s, *install, "srarq-sim")
		}
		runAll(servers, clients, fn)
	}

	if *runSweep {
		sweep := readSweep(*sweepFilePath)
		fn := func(i int, s Server, c *ssh.Client) error {
			if err := killSim(c); err != nil {
				return err
			}
			// host i owns every len(servers)-th run
			for k := i; k < len(sweep.Runs); k += len(servers) {
				sess, err := c.NewSession()
				if err != nil {
					return err
				}
				cmd := fmt.Sprintf("./srarq-sim %s > log-%d.txt 2>&1", sweep.Runs[k], k)
				err = sess.Run(cmd)
				sess.Close()
				if err != nil {
					return RemoteError{err, fmt.Sprintf("run %d failed", k)}
				}
				fmt.Printf("%v finished run %d\n", s.Location, k)
			}
			return nil
		}
		runAll(servers, clients, fn)
	}

	if *downloadResults != "" {
		sweep := readSweep(*sweepFilePath)
		fn := func(i int, s Server, c *ssh.Client) error {
			for k := i; k < len(sweep.Runs); k += len(servers) {
				dest := fmt.Sprintf("%s-%s-%d.txt", *downloadResults, sweep.Name, k)
				if err := copyBackFile(s, fmt.Sprintf("log-%d.txt", k), dest); err != nil {
					return err
				}
			}
			return nil
		}
		runAll(servers, clients, fn)
	}
}

func runAll(servers []Server, clients []*ssh.Client, fn func(int, Server, *ssh.Client) error) {
	if len(servers) != len(clients) {
		panic("incorrect")
	}
	wg := &sync.WaitGroup{}
	wg.Add(len(clients))
	for i := range clients {
		go func(i int, s Server, c *ssh.Client) {
			defer wg.Done()
			err := fn(i, s, c)
			if err != nil {
				switch err := err.(type) {
				case *exec.ExitError:
					fmt.Printf("error executing local command for server %v: %s\n", i, err.Stderr)
				case *ssh.ExitError:
					fmt.Printf("error executing command on server %v: %s\n", i, err.Msg())
				default:
					fmt.Printf("error executing on server %v: %v\n", i, err)
				}
			}
		}(i, servers[i], clients[i])
	}
	wg.Wait()
}

// TODO: use go-native ssh for file transfer instead of shelling out to scp
func copyBackFile(s Server, from, dest string) error {
	fromStr := fmt.Sprintf("%s@%s:%s", s.User, s.PublicIP, from)
	cmdArgs := []string{"-o", "StrictHostKeyChecking=no", "-o", "UserKnownHostsFile=/dev/null", "-i", s.KeyPath, fromStr, dest}
	return exec.Command("scp", cmdArgs...).Run()
}

func uploadFile(s Server, from, dest string) error {
	toStr := fmt.Sprintf("%s@%s:%s", s.User, s.PublicIP, dest)
	cmdArgs := []string{"-o", "StrictHostKeyChecking=no", "-o", "UserKnownHostsFile=/dev/null", "-i", s.KeyPath, from, toStr}
	return exec.Command("scp", cmdArgs...).Run()
}

func killSim(c *ssh.Client) error {
	sess, err := c.NewSession()
	if err != nil {
		return RemoteError{err, "error creating session"}
	}
	sess.Run(`killall -w srarq-sim`)
	sess.Close()
	return nil
}
