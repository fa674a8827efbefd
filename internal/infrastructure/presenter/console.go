package presenter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"barcode-scanner/internal/domain/port"
)

// Console печатает статус и адреса в терминал, уведомление ждёт Enter.
type Console struct {
	mu  sync.Mutex
	out io.Writer
	in  *bufio.Reader
}

// NewConsole создаёт консольный презентер.
func NewConsole(out io.Writer, in io.Reader) *Console {
	return &Console{out: out, in: bufio.NewReader(in)}
}

func (c *Console) SetStatus(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, text)
}

// Alert печатает текст и блокируется до ввода строки или отмены ctx.
func (c *Console) Alert(ctx context.Context, text string) error {
	c.mu.Lock()
	fmt.Fprintf(c.out, "%s [Enter]\n", text)
	c.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		_, err := c.in.ReadString('\n')
		if err == io.EOF {
			err = nil
		}
		done <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// Navigate печатает адрес перехода.
func (c *Console) Navigate(ctx context.Context, target string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.out, target)
	return err
}

// Проверка реализации интерфейса
var _ port.Presenter = (*Console)(nil)
